package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gymflow/portal/internal/api/http/handlers"
	"github.com/gymflow/portal/internal/apiclient"
	"github.com/gymflow/portal/internal/auth"
	"github.com/gymflow/portal/internal/config"
	"github.com/gymflow/portal/internal/events"
	"github.com/gymflow/portal/internal/observability"
	"github.com/gymflow/portal/internal/service"
	"github.com/gymflow/portal/internal/session"
)

var testRoutes = auth.Routes{Login: "/login", AdminLanding: "/admin/dashboard", UserLanding: "/dashboard"}

// fakeGym is a minimal stand-in for the remote REST API.
type fakeGym struct {
	mu      sync.Mutex
	revoked map[string]bool
}

var gymUsers = map[string]map[string]any{
	"admin-token":  {"id": 1, "name": "Ada", "email": "admin@gym.test", "role": "admin"},
	"member-token": {"id": 2, "name": "Bo", "email": "member@gym.test", "role": "user"},
}

func (g *fakeGym) revoke(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revoked[token] = true
}

func (g *fakeGym) user(r *nethttp.Request) (map[string]any, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.revoked[token] {
		return nil, false
	}
	u, ok := gymUsers[token]
	return u, ok
}

func (g *fakeGym) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	reply := func(status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}

	switch r.URL.Path {
	case "/api/auth/login":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		for token, u := range gymUsers {
			if u["email"] == body["email"] && body["password"] == "secret" {
				reply(nethttp.StatusOK, map[string]any{"access_token": token, "user": u})
				return
			}
		}
		reply(nethttp.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	case "/api/member-requests":
		reply(nethttp.StatusCreated, map[string]string{"message": "ok"})
		return
	}

	u, ok := g.user(r)
	if !ok {
		reply(nethttp.StatusUnauthorized, map[string]string{"message": "Token expired"})
		return
	}
	switch r.URL.Path {
	case "/api/auth/me":
		reply(nethttp.StatusOK, u)
	case "/api/reports/summary":
		reply(nethttp.StatusOK, map[string]any{"totalMembers": 40, "activeMembers": 31})
	case "/api/attendance/today":
		reply(nethttp.StatusOK, []map[string]any{{"id": 1, "member_id": 2, "member_name": "Bo", "check_in": time.Now().UTC().Format(time.RFC3339)}})
	case "/api/attendance/my-history", "/api/workouts":
		reply(nethttp.StatusOK, []any{})
	default:
		reply(nethttp.StatusNotFound, map[string]string{"message": "not found"})
	}
}

type portal struct {
	app      *fiber.App
	gym      *fakeGym
	storages *session.MemoryStorages
	upstream string
	logs     *observer.ObservedLogs
}

func newPortal(t *testing.T, gym *fakeGym, storages *session.MemoryStorages) *portal {
	t.Helper()
	if gym == nil {
		gym = &fakeGym{revoked: map[string]bool{}}
	}
	if storages == nil {
		storages = session.NewMemoryStorages()
	}
	srv := httptest.NewServer(gym)
	t.Cleanup(srv.Close)

	api, err := apiclient.New(srv.Client(), srv.URL+"/api", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	dispatcher := events.NewInMemoryDispatcher()
	registry := session.NewRegistry(ctx, func(browserID string) *session.Store {
		return session.NewStore(session.Dependencies{
			Subject:    browserID,
			Auth:       api,
			Storage:    storages.For(browserID),
			Dispatcher: dispatcher,
		})
	}, nil)

	metrics := observability.NewMetrics("portal_test")
	dashboard := service.NewDashboardService(nil)
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	RegisterMiddlewares(app, zap.New(core), metrics, testRoutes, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Routes:   testRoutes,
		Health:   handlers.NewHealthHandler("portal", "test", map[string]handlers.Pinger{"api": api}),
		Auth:     handlers.NewAuthHandler(api, testRoutes),
		Admin:    handlers.NewAdminHandler(api, dashboard),
		Members:  handlers.NewMembersHandler(api, dashboard),
		Invites:  handlers.NewInvitesHandler(api),
		Member:   handlers.NewMemberHandler(api, dashboard),
		Sessions: auth.NewSessionMiddleware(registry, config.SessionConfig{CookieName: "sid", TTLHours: 1}),
		Metrics:  metrics,
	})
	return &portal{app: app, gym: gym, storages: storages, upstream: srv.URL, logs: logs}
}

type browser struct {
	t      *testing.T
	portal *portal
	cookie *nethttp.Cookie
}

func (p *portal) browser(t *testing.T) *browser {
	return &browser{t: t, portal: p}
}

func (b *browser) send(req *nethttp.Request) *nethttp.Response {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	resp, err := b.portal.app.Test(req, 5000)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			b.cookie = c
		}
	}
	return resp
}

// get follows the loading view the way a browser would, until the guard decides.
func (b *browser) get(path string) *nethttp.Response {
	b.t.Helper()
	var resp *nethttp.Response
	require.Eventually(b.t, func() bool {
		resp = b.send(httptest.NewRequest(nethttp.MethodGet, path, nil))
		return resp.StatusCode != fiber.StatusAccepted
	}, 2*time.Second, 10*time.Millisecond)
	return resp
}

func (b *browser) post(path string, form url.Values) *nethttp.Response {
	b.t.Helper()
	req := httptest.NewRequest(nethttp.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return b.send(req)
}

func (b *browser) login(email string) *nethttp.Response {
	b.t.Helper()
	require.Equal(b.t, nethttp.StatusOK, b.get("/login").StatusCode)
	return b.post("/login", url.Values{"email": {email}, "password": {"secret"}})
}

func view(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		View string `json:"view"`
	}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.View
}

func assertRedirect(t *testing.T, resp *nethttp.Response, to string) {
	t.Helper()
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, to, resp.Header.Get(fiber.HeaderLocation))
}

func TestAnonymousIsSentToLogin(t *testing.T) {
	b := newPortal(t, nil, nil).browser(t)

	assertRedirect(t, b.get("/admin/dashboard"), "/login")
	require.NotNil(t, b.cookie)
	assertRedirect(t, b.get("/dashboard"), "/login")
	assertRedirect(t, b.get("/"), "/login")
	assert.Equal(t, "login", view(t, b.get("/login")))
}

func TestRequestLogCarriesGuardDecision(t *testing.T) {
	p := newPortal(t, nil, nil)
	b := p.browser(t)

	assertRedirect(t, b.get("/dashboard"), "/login")
	b.get("/health/live")

	var guarded, unguarded []string
	for _, entry := range p.logs.FilterMessage("request").All() {
		fields := entry.ContextMap()
		decision, ok := fields["guard"].(string)
		switch fields["path"] {
		case "/dashboard":
			require.True(t, ok)
			guarded = append(guarded, decision)
		case "/health/live":
			assert.False(t, ok)
			unguarded = append(unguarded, "live")
		}
	}
	require.NotEmpty(t, guarded)
	assert.Equal(t, "rejected", guarded[len(guarded)-1])
	assert.NotEmpty(t, unguarded)
}

func TestAdminLoginReachesDashboard(t *testing.T) {
	b := newPortal(t, nil, nil).browser(t)

	assertRedirect(t, b.login("admin@gym.test"), "/admin/dashboard")

	resp := b.get("/admin/dashboard")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin-dashboard", view(t, resp))
	assertRedirect(t, b.get("/login"), "/admin/dashboard")
	assertRedirect(t, b.get("/"), "/admin/dashboard")
}

func TestMemberCannotOpenAdminViews(t *testing.T) {
	b := newPortal(t, nil, nil).browser(t)

	assertRedirect(t, b.login("member@gym.test"), "/dashboard")
	assertRedirect(t, b.get("/admin/members"), "/dashboard")
	assert.Equal(t, "dashboard", view(t, b.get("/dashboard")))
}

func TestFailedLoginKeepsSessionAnonymous(t *testing.T) {
	b := newPortal(t, nil, nil).browser(t)
	require.Equal(t, nethttp.StatusOK, b.get("/login").StatusCode)

	resp := b.post("/login", url.Values{"email": {"admin@gym.test"}, "password": {"wrong"}})
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assertRedirect(t, b.get("/admin/dashboard"), "/login")
}

func TestRevokedTokenRedirectsToLogin(t *testing.T) {
	p := newPortal(t, nil, nil)
	b := p.browser(t)
	b.login("admin@gym.test")

	p.gym.revoke("admin-token")

	assertRedirect(t, b.get("/admin/dashboard"), "/login")
	assertRedirect(t, b.get("/admin/dashboard"), "/login")
	assert.Equal(t, nethttp.StatusOK, b.get("/login").StatusCode)
}

func TestSessionSurvivesRestart(t *testing.T) {
	gym := &fakeGym{revoked: map[string]bool{}}
	storages := session.NewMemoryStorages()
	first := newPortal(t, gym, storages).browser(t)
	first.login("member@gym.test")

	restarted := newPortal(t, gym, storages).browser(t)
	restarted.cookie = first.cookie

	assert.Equal(t, "dashboard", view(t, restarted.get("/dashboard")))
}

func TestLogout(t *testing.T) {
	b := newPortal(t, nil, nil).browser(t)
	b.login("member@gym.test")

	assertRedirect(t, b.post("/logout", nil), "/login")
	assertRedirect(t, b.get("/dashboard"), "/login")
}

func TestSignupValidation(t *testing.T) {
	b := newPortal(t, nil, nil).browser(t)

	resp := b.post("/signup", url.Values{"name": {"Cy"}, "email": {"not-an-email"}, "phone": {"5"}, "plan": {"monthly"}})
	require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "VALIDATION_FAILED")

	resp = b.post("/signup", url.Values{"name": {"Cy"}, "email": {"cy@gym.test"}, "phone": {"5"}, "plan": {"monthly"}})
	assert.Equal(t, nethttp.StatusCreated, resp.StatusCode)
}

func TestUnknownPathGoesHome(t *testing.T) {
	b := newPortal(t, nil, nil).browser(t)

	assertRedirect(t, b.get("/no/such/page"), "/")
}

func TestProbesAndMetricsSkipSessions(t *testing.T) {
	b := newPortal(t, nil, nil).browser(t)

	resp := b.get("/health/live")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Nil(t, b.cookie)

	resp = b.get("/health/ready")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp = b.get("/metrics")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "portal_test_http_requests_total")
	assert.Nil(t, b.cookie)
}
