package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/gymflow/portal/pkg/util"
)

// RequireAdmin guards admin-only views.
func RequireAdmin(routes Routes) fiber.Handler {
	return guard(AdminOnly, routes)
}

// RequireUser guards views that only need a signed-in session of any role.
func RequireUser(routes Routes) fiber.Handler {
	return guard(AuthenticatedOnly, routes)
}

// RedirectIfAuthenticated keeps signed-in sessions away from the login view.
func RedirectIfAuthenticated(routes Routes) fiber.Handler {
	return guard(PublicOnly, routes)
}

func guard(req Requirement, routes Routes) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewInternalError(nil)
		}
		out := Evaluate(store, req, routes)
		c.Locals(decisionKey, out.Decision)
		switch out.Decision {
		case Pending:
			return RenderPending(c)
		case Rejected, Forbidden:
			return c.Redirect(out.Redirect, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RenderPending writes the neutral loading view and asks the browser to retry shortly.
func RenderPending(c *fiber.Ctx) error {
	c.Set(fiber.HeaderRetryAfter, "1")
	c.Set("Refresh", "1")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"view": "loading"})
}

// DecisionFromContext returns the guard decision recorded for this request.
func DecisionFromContext(c *fiber.Ctx) (Decision, bool) {
	d, ok := c.Locals(decisionKey).(Decision)
	return d, ok
}
