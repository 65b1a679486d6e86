package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/gymflow/portal/internal/config"
	"github.com/gymflow/portal/internal/session"
)

const (
	sessionKey  = "portal_session"
	decisionKey = "portal_guard_decision"
)

// SessionMiddleware attaches the browser's Store to every request, issuing a browser cookie on
// first contact.
type SessionMiddleware struct {
	registry *session.Registry
	cfg      config.SessionConfig
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(registry *session.Registry, cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{registry: registry, cfg: cfg}
}

// Handle resolves the cookie to a Store.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	// The cookie value aliases the request buffer; the registry keeps it as a map key.
	browserID := utils.CopyString(c.Cookies(m.cfg.CookieName))
	if _, err := uuid.Parse(browserID); err != nil {
		browserID = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     m.cfg.CookieName,
			Value:    browserID,
			Path:     "/",
			HTTPOnly: true,
			Secure:   m.cfg.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
			MaxAge:   int(m.cfg.TTL().Seconds()),
		})
	}

	c.Locals(sessionKey, m.registry.Get(browserID))
	return c.Next()
}

// SessionFromContext retrieves the browser's Store.
func SessionFromContext(c *fiber.Ctx) (*session.Store, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	store, ok := val.(*session.Store)
	return store, ok
}
