package dto

import (
	"strings"
	"time"

	"github.com/gymflow/portal/internal/domain"
	apperrors "github.com/gymflow/portal/pkg/util"
)

// MemberRequest is the admin member form.
type MemberRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
	MembershipType  string `json:"membership_type" form:"membership_type"`
	MembershipStart string `json:"membership_start" form:"membership_start"`
	MembershipEnd   string `json:"membership_end" form:"membership_end"`
	Status          string `json:"status" form:"status"`
}

// Input validates the form and converts it. Status defaults to active.
func (r MemberRequest) Input() (domain.MemberInput, error) {
	in := domain.MemberInput{
		Name:            strings.TrimSpace(r.Name),
		Email:           strings.TrimSpace(r.Email),
		Phone:           strings.TrimSpace(r.Phone),
		MembershipType:  strings.TrimSpace(r.MembershipType),
		MembershipStart: strings.TrimSpace(r.MembershipStart),
		MembershipEnd:   strings.TrimSpace(r.MembershipEnd),
		Status:          domain.MemberStatus(strings.ToLower(strings.TrimSpace(r.Status))),
	}
	if in.Name == "" || in.Email == "" {
		return in, apperrors.NewValidationError("name and email required", nil)
	}
	if in.MembershipType == "" {
		in.MembershipType = "monthly"
	}
	switch in.Status {
	case "":
		in.Status = domain.MemberStatusActive
	case domain.MemberStatusActive, domain.MemberStatusInactive, domain.MemberStatusExpired:
	default:
		return in, apperrors.NewValidationError("invalid status", map[string]any{"status": r.Status})
	}

	start, err := membershipDate("membership_start", in.MembershipStart)
	if err != nil {
		return in, err
	}
	end, err := membershipDate("membership_end", in.MembershipEnd)
	if err != nil {
		return in, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return in, apperrors.NewValidationError("membership_end is before membership_start", nil)
	}
	return in, nil
}

// membershipDate parses an optional form date. Empty is allowed.
func membershipDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, ok := apperrors.ParseDate(raw)
	if !ok {
		return t, apperrors.NewValidationError("invalid "+field, map[string]any{field: raw})
	}
	return t, nil
}

// MemberListQuery filters the member list.
type MemberListQuery struct {
	Search string `query:"search"`
	Status string `query:"status"`
}
