package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gymflow/portal/internal/apiclient"
	"github.com/gymflow/portal/internal/domain"
	"github.com/gymflow/portal/internal/service"
)

// AdminHandler serves the admin dashboard, attendance and report views.
type AdminHandler struct {
	api       *apiclient.Client
	dashboard *service.DashboardService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(api *apiclient.Client, dashboard *service.DashboardService) *AdminHandler {
	return &AdminHandler{api: api, dashboard: dashboard}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	view, err := h.dashboard.AdminDashboard(c.UserContext(), api)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "admin-dashboard", view)
}

// Attendance handles GET /admin/attendance?search=.
func (h *AdminHandler) Attendance(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	records, err := api.TodayAttendance(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "admin-attendance", h.dashboard.AttendanceBoard(records, c.Query("search")))
}

// MemberAttendance handles GET /admin/members/:id/attendance.
func (h *AdminHandler) MemberAttendance(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	records, err := api.AttendanceHistory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "attendance-history", h.dashboard.AttendanceHistory(records))
}

// Reports handles GET /admin/reports?startDate=&endDate=.
func (h *AdminHandler) Reports(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	view, err := h.dashboard.Reports(c.UserContext(), api, domain.DateRange{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "admin-reports", view)
}

// Revenue handles GET /admin/reports/revenue.
func (h *AdminHandler) Revenue(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	r, err := h.dashboard.NormalizeRange(domain.DateRange{StartDate: c.Query("startDate"), EndDate: c.Query("endDate")})
	if err != nil {
		return err
	}
	report, err := api.RevenueReport(c.UserContext(), r)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "admin-revenue", fiber.Map{"range": r, "report": report})
}

// Analytics handles GET /admin/reports/analytics?days=&top=.
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	view, err := h.dashboard.Analytics(c.UserContext(), api, c.QueryInt("days"), c.QueryInt("top"))
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "admin-analytics", view)
}
