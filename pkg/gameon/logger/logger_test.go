package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewFormatFollowsEnvironment(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Writer: &buf, Environment: "production"}).Info("hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])

	buf.Reset()
	New(Config{Writer: &buf, Environment: "development"}).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: FormatJSON})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest("GET", "/missing", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, "req-123", resp.Header().Get(HeaderRequestID))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.EqualValues(t, 404, entry["status"])

	buf.Reset()
	req, _ = http.NewRequest("GET", "/ok", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	generated := resp.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.True(t, strings.Contains(buf.String(), generated))
}
