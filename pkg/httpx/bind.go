package httpx

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
)

var (
	registerOnce sync.Once
	phonePattern = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)
)

// RegisterValidators makes gin's validator report JSON field names and adds
// the "phone" tag. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	})
}

// BindJSON decodes and validates the request body.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindError(err)
	}
	return nil
}

// BindOptionalJSON is BindJSON for endpoints whose body may be omitted.
func BindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return bindError(err)
}

func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldMessage(fe))
		}
		return apperr.New(apperr.Validation, strings.Join(msgs, "; "))
	}
	if errors.Is(err, io.EOF) {
		return apperr.New(apperr.Validation, "Request body is required")
	}
	return apperr.Wrap(apperr.Validation, err, "Malformed request body")
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email address"
	case "phone":
		return f + " must be a valid phone number"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", f, fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, fe.Param())
	}
	return f + " is invalid"
}

// ParamID reads a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.Validation, "invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

// QueryID reads a required positive integer query parameter.
func QueryID(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, apperr.Newf(apperr.Validation, "%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.Validation, "invalid %s %q", name, raw)
	}
	return id, nil
}

// Page is a zero-based page request.
type Page struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// MaxPage bounds page so page*size stays a valid offset.
const MaxPage = 100000

// PageQuery reads page/size, clamped to [0,MaxPage] and [1,100].
func PageQuery(c *gin.Context) Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	switch {
	case page < 0:
		page = 0
	case page > MaxPage:
		page = MaxPage
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return Page{Page: page, Size: size}
}

// Paged is the list response shape.
type Paged[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}
