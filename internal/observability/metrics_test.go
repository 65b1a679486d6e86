package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics("test")

	m.RecordRequest("/dashboard", http.MethodGet, 200, 10*time.Millisecond)
	m.RecordRequest("/dashboard", http.MethodGet, 200, 20*time.Millisecond)
	m.RecordError("/login", http.MethodPost, "UNAUTHORIZED")
	m.RecordSessionEvent("session_rejected")
	m.SetActiveSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/dashboard", http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/login", http.MethodPost, "UNAUTHORIZED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionEvents.WithLabelValues("session_rejected")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeStores))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
		m.RecordError("/", http.MethodGet, "X")
		m.RecordSessionEvent("x")
		m.SetActiveSessions(1)
	})
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics("test")
	m.RecordSessionEvent("session_logged_in")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_session_events_total{type="session_logged_in"} 1`)
}

func TestRequestLoggerLogsAndCounts(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := NewMetrics("test")

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(404), entries[1].ContextMap()["status"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/ok", http.MethodGet, "200")))
	assert.True(t, strings.HasPrefix(entries[0].Message, "request"))
}

func TestRequestLoggerAddsExtraFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tagged := func(c *fiber.Ctx) (zap.Field, bool) {
		v, ok := c.Locals("tag").(string)
		return zap.String("tag", v), ok
	}

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), nil, tagged))
	app.Get("/tagged", func(c *fiber.Ctx) error {
		c.Locals("tag", "admin")
		return c.SendString("ok")
	})
	app.Get("/plain", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, path := range []string{"/tagged", "/plain"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "admin", entries[0].ContextMap()["tag"])
	assert.NotContains(t, entries[1].ContextMap(), "tag")
}
