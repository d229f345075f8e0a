package proxy

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type gatewayError struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// WriteError renders the gateway's own failures. A response that is already
// on the wire cannot be rewritten, so the handler is aborted instead.
func WriteError(c *gin.Context, status int, msg string) {
	if c.Writer.Written() {
		panic(http.ErrAbortHandler)
	}
	c.AbortWithStatusJSON(status, newError(status, msg, c.Request.URL.Path))
}

func newError(status int, msg, path string) gatewayError {
	return gatewayError{
		Timestamp: time.Now().Format("2006-01-02T15:04:05.000"),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   msg,
		Path:      path,
	}
}

func writeRaw(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(newError(status, msg, r.URL.Path))
}

// Recovery turns panics into a 500 body unless the response was committed.
func Recovery(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler || c.Writer.Written() {
				panic(r)
			}
			log.WithField("panic", r).WithField("path", c.Request.URL.Path).Error("gateway panic")
			WriteError(c, http.StatusInternalServerError, "Internal server error")
		}()
		c.Next()
	}
}
