package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hiddenpiece/roadmap-service/internal/config"
)

func TestNewLogger_LevelAndEncoding(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")
	logger, err := newLogger(config.LoggerConfig{Level: "WARN"}, []string{out})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.String("roadmap_id", "7"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"message":"shown"`)
	assert.Contains(t, string(data), `"level":"warn"`)
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := newLogger(config.LoggerConfig{Level: "chatty"}, []string{filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestMetrics_RecordAndExpose(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.RecordRequest("/api/v1/roadmaps/:id", http.MethodGet, 200, 20*time.Millisecond)
	m.RecordRequest("/api/v1/roadmaps/:id", http.MethodGet, 200, 30*time.Millisecond)
	m.RecordError("/api/v1/roadmaps/:id", http.MethodPut, "NOT_MATCH_WRITER")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/roadmaps/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/v1/roadmaps/:id", "PUT", "NOT_MATCH_WRITER")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "roadmap_http_requests_total")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
		m.RecordError("/", http.MethodGet, "X")
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(RequestIDLocal, "req-1")
		return c.Next()
	})
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/roadmaps/:id", func(c *fiber.Ctx) error {
		return c.Status(http.StatusTeapot).SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/roadmaps/3", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", strings.TrimSpace(string(body)))

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/roadmaps/3", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "req-1", fields["request_id"])

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("/roadmaps/:id", "GET", "418")))
}
