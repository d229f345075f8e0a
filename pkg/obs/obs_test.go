package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinLoggerRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := NewLogger("test", "debug", "json")
	log.Logger.SetOutput(&buf)

	r := gin.New()
	r.Use(GinLogger(log))
	r.GET("/ping", func(c *gin.Context) {
		From(c, nil).Info("inside")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	rid := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, rid)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	var last map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &last))
	assert.Equal(t, rid, last["request_id"])
	assert.Equal(t, "test", last["service"])
	assert.EqualValues(t, http.StatusNoContent, last["status"])
}

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, NewLogger("x", "nonsense", "text").Logger.GetLevel())
	assert.Equal(t, logrus.WarnLevel, NewLogger("x", "warn", "json").Logger.GetLevel())
}

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "svc", "test", "localhost:4317", false)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
