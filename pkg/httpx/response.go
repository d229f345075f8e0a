package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
)

// Envelope is the body every service returns.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status,omitempty"`
	Data    T      `json:"data,omitempty"`
}

func JSONSuccess(c *gin.Context, code int, data any) {
	c.JSON(code, Envelope[any]{Success: true, Data: data})
}

func JSONMessage(c *gin.Context, code int, msg string, data any) {
	c.JSON(code, Envelope[any]{Success: true, Message: msg, Data: data})
}

// JSONError is the single place a domain error becomes an HTTP response.
func JSONError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	code := apperr.Status(kind)
	if kind == apperr.Internal || kind == apperr.Upstream {
		entry := logrus.WithError(err)
		if l, ok := c.Get(LoggerKey); ok {
			if le, ok := l.(*logrus.Entry); ok {
				entry = le.WithError(err)
			}
		}
		entry.WithField("path", c.Request.URL.Path).Error("request failed")
	}
	c.AbortWithStatusJSON(code, Envelope[any]{Success: false, Message: apperr.Message(err), Status: code})
}

// LoggerKey is where obs.GinLogger stores the request-scoped entry.
const LoggerKey = "logger"
