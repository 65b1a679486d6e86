package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/gymflow/portal/internal/api/http/handlers"
	"github.com/gymflow/portal/internal/auth"
	"github.com/gymflow/portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Routes   auth.Routes
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Admin    *handlers.AdminHandler
	Members  *handlers.MembersHandler
	Invites  *handlers.InvitesHandler
	Member   *handlers.MemberHandler
	Sessions *auth.SessionMiddleware
	// Metrics is optional; nil leaves /metrics unregistered.
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Probes and metrics are registered before the session
// middleware so they never create sessions.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Use(cfg.Sessions.Handle)

	routes := cfg.Routes
	publicOnly := auth.RedirectIfAuthenticated(routes)
	app.Get(routes.Login, publicOnly, cfg.Auth.LoginView)
	app.Post(routes.Login, publicOnly, cfg.Auth.Login)
	app.Get("/register", publicOnly, cfg.Auth.RegisterView)
	app.Post("/register", publicOnly, cfg.Auth.Register)
	app.Post("/logout", cfg.Auth.Logout)
	app.Get("/reset-password", cfg.Auth.ResetView)
	app.Post("/reset-password", cfg.Auth.RequestReset)
	app.Post("/reset-password/confirm", cfg.Auth.ConfirmReset)
	app.Get("/signup", cfg.Auth.SignupView)
	app.Post("/signup", cfg.Auth.Signup)
	app.Get("/", cfg.Auth.Root)

	admin := app.Group("/admin", auth.RequireAdmin(routes))
	admin.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(routes.AdminLanding, fiber.StatusSeeOther)
	})
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/attendance", cfg.Admin.Attendance)
	admin.Get("/reports", cfg.Admin.Reports)
	admin.Get("/reports/revenue", cfg.Admin.Revenue)
	admin.Get("/reports/analytics", cfg.Admin.Analytics)

	admin.Get("/members", cfg.Members.List)
	admin.Post("/members", cfg.Members.Create)
	admin.Get("/members/new", cfg.Members.NewView)
	admin.Get("/members/:id", cfg.Members.Details)
	admin.Get("/members/:id/attendance", cfg.Admin.MemberAttendance)
	admin.Put("/members/:id", cfg.Members.Update)
	admin.Post("/members/:id", cfg.Members.Update)
	admin.Delete("/members/:id", cfg.Members.Delete)
	admin.Post("/members/:id/delete", cfg.Members.Delete)

	admin.Get("/member-requests", cfg.Members.Requests)
	admin.Get("/member-requests/:id", cfg.Members.Request)
	admin.Post("/member-requests/:id/approve", cfg.Members.Approve)
	admin.Post("/member-requests/:id/reject", cfg.Members.Reject)
	admin.Delete("/member-requests/:id", cfg.Members.DeleteRequest)
	admin.Post("/member-requests/:id/delete", cfg.Members.DeleteRequest)

	admin.Get("/invites", cfg.Invites.List)
	admin.Post("/invites", cfg.Invites.Create)
	admin.Delete("/invites/:id", cfg.Invites.Revoke)
	admin.Post("/invites/:id/delete", cfg.Invites.Revoke)

	user := auth.RequireUser(routes)
	app.Get("/dashboard", user, cfg.Member.Dashboard)
	app.Get("/check-in", user, cfg.Member.CheckInView)
	app.Post("/check-in", user, cfg.Member.CheckIn)
	app.Get("/attendance", user, cfg.Member.Attendance)
	app.Get("/workouts", user, cfg.Member.Workouts)
	app.Post("/workouts", user, cfg.Member.CreateWorkout)
	app.Get("/workouts/types", user, cfg.Member.WorkoutTypes)
	app.Get("/workouts/:id", user, cfg.Member.Workout)
	app.Put("/workouts/:id", user, cfg.Member.UpdateWorkout)
	app.Post("/workouts/:id", user, cfg.Member.UpdateWorkout)
	app.Delete("/workouts/:id", user, cfg.Member.DeleteWorkout)
	app.Post("/workouts/:id/delete", user, cfg.Member.DeleteWorkout)

	app.Use(cfg.Auth.NotFound)
}
