package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymflow/portal/internal/apiclient"
	"github.com/gymflow/portal/internal/auth"
	"github.com/gymflow/portal/internal/domain"
	"github.com/gymflow/portal/internal/session"
	apperrors "github.com/gymflow/portal/pkg/util"
)

// render writes a named view with its data.
func render(c *fiber.Ctx, status int, view string, data any) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(status).JSON(fiber.Map{"view": view, "data": data})
}

func redirect(c *fiber.Ctx, to string) error {
	return c.Redirect(to, fiber.StatusSeeOther)
}

func currentSession(c *fiber.Ctx) (*session.Store, error) {
	store, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewInternalError(nil)
	}
	return store, nil
}

// boundClient returns the API client acting for this request's session.
func boundClient(c *fiber.Ctx, api *apiclient.Client) (*apiclient.Client, error) {
	store, err := currentSession(c)
	if err != nil {
		return nil, err
	}
	return api.WithCredentials(store), nil
}

func pathID(c *fiber.Ctx, name string) (domain.ID, error) {
	id, err := domain.ParseID(c.Params(name))
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}
