package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymflow/portal/internal/config"
	"github.com/gymflow/portal/internal/session"
)

func TestSessionMiddlewareKeepsStorePerCookie(t *testing.T) {
	var created atomic.Int32
	storages := session.NewMemoryStorages()
	registry := session.NewRegistry(context.Background(), func(browserID string) *session.Store {
		created.Add(1)
		return session.NewStore(session.Dependencies{
			Subject: browserID,
			Auth:    &gateAuth{},
			Storage: storages.For(browserID),
		})
	}, nil)

	cfg := config.SessionConfig{CookieName: "gymflow_sid", TTLHours: 1}
	var seen *session.Store
	app := fiber.New()
	app.Use(NewSessionMiddleware(registry, cfg).Handle)
	app.Get("/", func(c *fiber.Ctx) error {
		seen, _ = SessionFromContext(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	visit := func(browserID string) *session.Store {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: browserID})
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Empty(t, resp.Cookies(), "known cookie must not be reissued")
		return seen
	}

	first := uuid.NewString()
	store := visit(first)
	for i := 0; i < 20; i++ {
		visit(uuid.NewString())
	}

	assert.Same(t, store, visit(first))
	assert.EqualValues(t, 21, created.Load())
	assert.Equal(t, 21, registry.Len())
}

func TestSessionMiddlewareIssuesCookieForUnknownValue(t *testing.T) {
	registry := session.NewRegistry(context.Background(), func(browserID string) *session.Store {
		return session.NewStore(session.Dependencies{Subject: browserID, Auth: &gateAuth{}, Storage: session.NewMemoryStorage()})
	}, nil)
	cfg := config.SessionConfig{CookieName: "gymflow_sid", TTLHours: 1}
	app := fiber.New()
	app.Use(NewSessionMiddleware(registry, cfg).Handle)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "not-a-uuid"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	_, err = uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, registry.Len())
}
