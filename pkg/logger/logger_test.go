package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_WritesRollingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	t.Cleanup(func() { Logger = zap.NewNop(); Sugar = Logger.Sugar() })

	require.NoError(t, Init(Options{Level: "info", Path: path}))
	Sugar.Infow("hello", "k", "v")
	Sugar.Debugw("hidden")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestGinLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Logger = zap.New(core)
	t.Cleanup(func() { Logger = zap.NewNop() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinLogger())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/health", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
}
