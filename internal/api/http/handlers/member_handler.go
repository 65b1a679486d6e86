package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gymflow/portal/internal/api/dto"
	"github.com/gymflow/portal/internal/apiclient"
	"github.com/gymflow/portal/internal/domain"
	"github.com/gymflow/portal/internal/service"
	apperrors "github.com/gymflow/portal/pkg/util"
)

// MemberHandler serves the signed-in member's views: dashboard, check-in, attendance and
// workouts.
type MemberHandler struct {
	api       *apiclient.Client
	dashboard *service.DashboardService
}

// NewMemberHandler constructs handler.
func NewMemberHandler(api *apiclient.Client, dashboard *service.DashboardService) *MemberHandler {
	return &MemberHandler{api: api, dashboard: dashboard}
}

// Dashboard handles GET /dashboard.
func (h *MemberHandler) Dashboard(c *fiber.Ctx) error {
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	view, err := h.dashboard.MemberDashboard(c.UserContext(), h.api.WithCredentials(store), store.User())
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "dashboard", view)
}

// CheckInView handles GET /check-in.
func (h *MemberHandler) CheckInView(c *fiber.Ctx) error {
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "check-in", fiber.Map{"user": store.User()})
}

// CheckIn handles POST /check-in. The member defaults to the signed-in user.
func (h *MemberHandler) CheckIn(c *fiber.Ctx) error {
	var req dto.CheckInRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	memberID, err := h.memberOrSelf(req.MemberID, store.User())
	if err != nil {
		return err
	}
	result, err := h.api.WithCredentials(store).CheckIn(c.UserContext(), memberID)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusCreated, "check-in", result)
}

// Attendance handles GET /attendance.
func (h *MemberHandler) Attendance(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	records, err := api.MyAttendance(c.UserContext(), 0)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "attendance-history", h.dashboard.AttendanceHistory(records))
}

// Workouts handles GET /workouts?type=.
func (h *MemberHandler) Workouts(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	workouts, err := api.ListWorkouts(c.UserContext(), apiclient.WorkoutQuery{})
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "workouts", h.dashboard.WorkoutBoard(workouts, c.Query("type")))
}

// Workout handles GET /workouts/:id.
func (h *MemberHandler) Workout(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	workout, err := api.GetWorkout(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "workout", workout)
}

// WorkoutTypes handles GET /workouts/types. A failing API falls back to the built-in list;
// a rejected session still goes to login.
func (h *MemberHandler) WorkoutTypes(c *fiber.Ctx) error {
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	types, err := api.WorkoutTypes(c.UserContext())
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeSessionRejected) {
			return err
		}
		types = service.DefaultWorkoutTypes
	}
	return render(c, fiber.StatusOK, "workout-types", fiber.Map{"types": types})
}

// CreateWorkout handles POST /workouts.
func (h *MemberHandler) CreateWorkout(c *fiber.Ctx) error {
	var req dto.WorkoutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	in, err := req.Input(selfID(store.User()))
	if err != nil {
		return err
	}
	if _, err := h.api.WithCredentials(store).CreateWorkout(c.UserContext(), in); err != nil {
		return err
	}
	return redirect(c, "/workouts")
}

// UpdateWorkout handles PUT (or form POST) /workouts/:id.
func (h *MemberHandler) UpdateWorkout(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.WorkoutRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	in, err := req.Input(selfID(store.User()))
	if err != nil {
		return err
	}
	if _, err := h.api.WithCredentials(store).UpdateWorkout(c.UserContext(), id, in); err != nil {
		return err
	}
	return redirect(c, "/workouts")
}

// DeleteWorkout handles DELETE /workouts/:id.
func (h *MemberHandler) DeleteWorkout(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	api, err := boundClient(c, h.api)
	if err != nil {
		return err
	}
	if err := api.DeleteWorkout(c.UserContext(), id); err != nil {
		return err
	}
	return redirect(c, "/workouts")
}

func (h *MemberHandler) memberOrSelf(raw string, user *domain.User) (domain.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if id := selfID(user); id > 0 {
			return id, nil
		}
		return 0, apperrors.NewValidationError("member id required", nil)
	}
	id, err := domain.ParseID(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid member id", map[string]any{"member_id": raw})
	}
	return id, nil
}

func selfID(user *domain.User) domain.ID {
	if user == nil {
		return 0
	}
	return user.ID
}
