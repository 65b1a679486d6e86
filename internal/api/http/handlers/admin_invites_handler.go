package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymflow/portal/internal/apiclient"
)

// InvitesHandler manages admin invite codes.
type InvitesHandler struct {
	api *apiclient.Client
}

// NewInvitesHandler constructs handler.
func NewInvitesHandler(api *apiclient.Client) *InvitesHandler {
	return &InvitesHandler{api: api}
}

// List handles GET /admin/invites.
func (h *InvitesHandler) List(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	invites, err := api.ListInvites(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "admin-invites", fiber.Map{"invites": invites})
}

// Create handles POST /admin/invites and shows the new code once.
func (h *InvitesHandler) Create(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	invite, err := api.CreateInvite(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, fiber.StatusCreated, "admin-invite-created", invite)
}

// Revoke handles DELETE /admin/invites/:id.
func (h *InvitesHandler) Revoke(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	if err := api.RevokeInvite(c.UserContext(), id); err != nil {
		return err
	}
	return redirect(c, "/admin/invites")
}
