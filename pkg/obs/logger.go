package obs

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
)

const RequestIDHeader = "X-Request-Id"

// NewLogger builds the service logger. format is "json" or "text".
func NewLogger(service, level, format string) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	if strings.EqualFold(format, "text") {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l.WithField("service", service)
}

// GinLogger logs one line per request and exposes a request-scoped entry
// to handlers under httpx.LoggerKey.
func GinLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, rid)
		}
		c.Header(RequestIDHeader, rid)
		entry := log.WithField("request_id", rid)
		c.Set(httpx.LoggerKey, entry)

		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		switch s := c.Writer.Status(); {
		case s >= 500:
			entry.WithFields(fields).Error("request")
		case s >= 400:
			entry.WithFields(fields).Warn("request")
		default:
			entry.WithFields(fields).Info("request")
		}
	}
}

// From returns the request-scoped entry, falling back to fallback.
func From(c *gin.Context, fallback *logrus.Entry) *logrus.Entry {
	if v, ok := c.Get(httpx.LoggerKey); ok {
		if e, ok := v.(*logrus.Entry); ok {
			return e
		}
	}
	return fallback
}
