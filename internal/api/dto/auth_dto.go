package dto

import (
	"regexp"
	"strings"

	"github.com/gymflow/portal/internal/domain"
	apperrors "github.com/gymflow/portal/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate checks required fields.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" || r.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	return nil
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	Phone      string `json:"phone" form:"phone"`
	Role       string `json:"role" form:"role"`
	InviteCode string `json:"inviteCode" form:"invite_code"`
}

// Registration validates the payload and converts it. Role defaults to user; admin accounts need
// an invite code.
func (r RegisterRequest) Registration() (domain.Registration, error) {
	reg := domain.Registration{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Phone:    strings.TrimSpace(r.Phone),
		Role:     domain.RoleUser,
	}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return reg, apperrors.NewValidationError("name, email, password required", nil)
	}
	if strings.TrimSpace(r.Role) != "" {
		role, err := domain.ParseRole(r.Role)
		if err != nil {
			return reg, apperrors.NewValidationError("invalid role", map[string]any{"role": r.Role})
		}
		reg.Role = role
	}
	if reg.Role == domain.RoleAdmin {
		reg.InviteCode = strings.TrimSpace(r.InviteCode)
		if reg.InviteCode == "" {
			return reg, apperrors.NewValidationError("invite code required for admin accounts", nil)
		}
	}
	return reg, nil
}

// PasswordResetRequest asks for a reset link.
type PasswordResetRequest struct {
	Email string `json:"email" form:"email"`
}

// PasswordResetConfirmRequest sets a new password.
type PasswordResetConfirmRequest struct {
	Token           string `json:"token" form:"token"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// Validate checks the token and the new password.
func (r PasswordResetConfirmRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return apperrors.NewValidationError("invalid or missing reset token", nil)
	}
	if len(r.NewPassword) < domain.MinPasswordLength {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if r.NewPassword != r.ConfirmPassword {
		return apperrors.NewValidationError("passwords do not match", nil)
	}
	return nil
}

// SignupRequest is the public membership request form.
type SignupRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Phone string `json:"phone" form:"phone"`
	Plan  string `json:"plan" form:"plan"`
}

// Input validates the form and converts it.
func (r SignupRequest) Input() (domain.MemberRequestInput, error) {
	in := domain.MemberRequestInput{
		Name:  strings.TrimSpace(r.Name),
		Email: strings.TrimSpace(r.Email),
		Phone: strings.TrimSpace(r.Phone),
		Plan:  strings.TrimSpace(r.Plan),
	}
	switch {
	case in.Name == "":
		return in, apperrors.NewValidationError("name is required", nil)
	case in.Email == "":
		return in, apperrors.NewValidationError("email is required", nil)
	case !emailPattern.MatchString(in.Email):
		return in, apperrors.NewValidationError("invalid email address", nil)
	case in.Phone == "":
		return in, apperrors.NewValidationError("phone number is required", nil)
	case in.Plan == "":
		return in, apperrors.NewValidationError("please select a membership plan", nil)
	}
	return in, nil
}
