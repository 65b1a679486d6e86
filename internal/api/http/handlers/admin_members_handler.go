package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gymflow/portal/internal/api/dto"
	"github.com/gymflow/portal/internal/apiclient"
	"github.com/gymflow/portal/internal/domain"
	"github.com/gymflow/portal/internal/service"
)

// MembersHandler serves member management and membership requests.
type MembersHandler struct {
	api   *apiclient.Client
	views *service.DashboardService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(api *apiclient.Client, views *service.DashboardService) *MembersHandler {
	return &MembersHandler{api: api, views: views}
}

// List handles GET /admin/members?search=&status=.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	var q dto.MemberListQuery
	if err := c.QueryParser(&q); err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	members, err := api.ListMembers(c.UserContext(), apiclient.MemberQuery{Search: q.Search})
	if err != nil {
		return err
	}
	status := q.Status
	if status == "" {
		status = "all"
	}
	return render(c, fiber.StatusOK, "admin-members", fiber.Map{
		"search":  q.Search,
		"status":  status,
		"members": service.FilterMembers(members, q.Search, status),
	})
}

// NewView handles GET /admin/members/new.
func (h *MembersHandler) NewView(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "admin-member-form", nil)
}

// Create handles POST /admin/members.
func (h *MembersHandler) Create(c *fiber.Ctx) error {
	var req dto.MemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.Input()
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	member, err := api.CreateMember(c.UserContext(), in)
	if err != nil {
		return err
	}
	if member.ID == 0 {
		return redirect(c, "/admin/members")
	}
	return redirect(c, "/admin/members/"+member.ID.String())
}

// Details handles GET /admin/members/:id, including the member's stats.
func (h *MembersHandler) Details(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	member, err := api.GetMember(c.UserContext(), id)
	if err != nil {
		return err
	}
	stats, err := api.MemberStats(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "admin-member", h.views.MemberDetails(member, stats))
}

// Update handles PUT (or form POST) /admin/members/:id.
func (h *MembersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.MemberRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.Input()
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	if _, err := api.UpdateMember(c.UserContext(), id, in); err != nil {
		return err
	}
	return redirect(c, "/admin/members/"+id.String())
}

// Delete handles DELETE /admin/members/:id.
func (h *MembersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	if err := api.DeleteMember(c.UserContext(), id); err != nil {
		return err
	}
	return redirect(c, "/admin/members")
}

// Requests handles GET /admin/member-requests?status=.
func (h *MembersHandler) Requests(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	status := domain.MemberRequestStatus(c.Query("status", string(domain.MemberRequestPending)))
	requests, err := api.ListMemberRequests(c.UserContext(), status)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "admin-member-requests", fiber.Map{"status": status, "requests": h.views.MemberRequestRows(requests)})
}

// Request handles GET /admin/member-requests/:id.
func (h *MembersHandler) Request(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	request, err := api.GetMemberRequest(c.UserContext(), id)
	if err != nil {
		return err
	}
	rows := h.views.MemberRequestRows([]domain.MemberRequest{*request})
	return render(c, fiber.StatusOK, "admin-member-request", rows[0])
}

// Approve handles POST /admin/member-requests/:id/approve.
func (h *MembersHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, (*apiclient.Client).ApproveMemberRequest)
}

// Reject handles POST /admin/member-requests/:id/reject.
func (h *MembersHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, (*apiclient.Client).RejectMemberRequest)
}

// DeleteRequest handles DELETE /admin/member-requests/:id.
func (h *MembersHandler) DeleteRequest(c *fiber.Ctx) error {
	return h.review(c, (*apiclient.Client).DeleteMemberRequest)
}

type requestAction func(*apiclient.Client, context.Context, domain.ID) error

func (h *MembersHandler) review(c *fiber.Ctx, action requestAction) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	if err := action(api, c.UserContext(), id); err != nil {
		return err
	}
	return redirect(c, "/admin/member-requests")
}
