package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gymflow/portal/internal/api/dto"
	"github.com/gymflow/portal/internal/apiclient"
	"github.com/gymflow/portal/internal/auth"
	apperrors "github.com/gymflow/portal/pkg/util"
)

// AuthHandler serves the public views: login, registration, password reset and signup.
type AuthHandler struct {
	api    *apiclient.Client
	routes auth.Routes
}

// NewAuthHandler constructs handler.
func NewAuthHandler(api *apiclient.Client, routes auth.Routes) *AuthHandler {
	return &AuthHandler{api: api, routes: routes}
}

// LoginView handles GET on the login route.
func (h *AuthHandler) LoginView(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "login", nil)
}

// Login handles POST on the login route and sends the session to its landing view.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	user, err := store.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return redirect(c, h.routes.LandingFor(user.Role))
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	store.Logout(c.UserContext())
	return redirect(c, h.routes.Login)
}

// RegisterView handles GET /register.
func (h *AuthHandler) RegisterView(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "register", nil)
}

// Register handles POST /register. A successful registration is signed in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	reg, err := req.Registration()
	if err != nil {
		return err
	}
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	user, err := store.Register(c.UserContext(), reg)
	if err != nil {
		return err
	}
	return redirect(c, h.routes.LandingFor(user.Role))
}

// ResetView handles GET /reset-password. With a token it shows the new-password form.
func (h *AuthHandler) ResetView(c *fiber.Ctx) error {
	if token := c.Query("token"); token != "" {
		return render(c, fiber.StatusOK, "reset-password-confirm", fiber.Map{"token": token})
	}
	return render(c, fiber.StatusOK, "reset-password", nil)
}

// RequestReset handles POST /reset-password.
func (h *AuthHandler) RequestReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if err := h.api.RequestPasswordReset(c.UserContext(), email); err != nil {
		return err
	}
	return render(c, fiber.StatusOK, "reset-password", fiber.Map{
		"message": "If that email is registered, a reset link has been sent.",
	})
}

// ConfirmReset handles POST /reset-password/confirm.
func (h *AuthHandler) ConfirmReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := h.api.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return redirect(c, h.routes.Login)
}

// SignupView handles GET /signup.
func (h *AuthHandler) SignupView(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "signup", nil)
}

// Signup handles POST /signup, filing a membership request for admin review.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.Input()
	if err != nil {
		return err
	}
	if err := h.api.SubmitMemberRequest(c.UserContext(), in); err != nil {
		return err
	}
	return render(c, fiber.StatusCreated, "signup", fiber.Map{
		"message": "Membership request submitted. We will contact you soon.",
	})
}

// Root handles GET / by sending the session to its landing view, or to login.
func (h *AuthHandler) Root(c *fiber.Ctx) error {
	store, err := currentSession(c)
	if err != nil {
		return err
	}
	out := auth.Evaluate(store, auth.AuthenticatedOnly, h.routes)
	switch out.Decision {
	case auth.Pending:
		return auth.RenderPending(c)
	case auth.Granted:
		return redirect(c, h.routes.LandingFor(store.Role()))
	default:
		return redirect(c, out.Redirect)
	}
}

// NotFound sends unknown paths to the root.
func (h *AuthHandler) NotFound(c *fiber.Ctx) error {
	return redirect(c, "/")
}
