package dto

import (
	"fmt"
	"strings"

	"github.com/gymflow/portal/internal/domain"
	apperrors "github.com/gymflow/portal/pkg/util"
)

// WorkoutRequest is the workout form.
type WorkoutRequest struct {
	MemberID  string            `json:"member_id" form:"member_id"`
	Type      string            `json:"type" form:"type"`
	Date      string            `json:"date" form:"date"`
	Duration  int               `json:"duration" form:"duration"`
	Calories  int               `json:"calories" form:"calories"`
	Notes     string            `json:"notes" form:"notes"`
	Exercises []domain.Exercise `json:"exercises" form:"-"`
}

// Input validates the form and converts it. A missing member id falls back to fallbackMember.
func (r WorkoutRequest) Input(fallbackMember domain.ID) (domain.WorkoutInput, error) {
	in := domain.WorkoutInput{
		MemberID:  fallbackMember,
		Type:      strings.TrimSpace(r.Type),
		Date:      strings.TrimSpace(r.Date),
		Duration:  r.Duration,
		Calories:  r.Calories,
		Notes:     strings.TrimSpace(r.Notes),
		Exercises: r.Exercises,
	}
	if raw := strings.TrimSpace(r.MemberID); raw != "" {
		id, err := domain.ParseID(raw)
		if err != nil {
			return in, apperrors.NewValidationError("invalid member id", map[string]any{"member_id": raw})
		}
		in.MemberID = id
	}

	details := map[string]any{}
	if in.MemberID <= 0 {
		details["member_id"] = "member must be selected"
	}
	if in.Type == "" {
		details["type"] = "required"
	}
	if in.Duration < 0 || in.Calories < 0 {
		details["duration"] = "duration and calories must not be negative"
	}
	for i, ex := range in.Exercises {
		key := fmt.Sprintf("exercises[%d]", i)
		switch {
		case strings.TrimSpace(ex.Name) == "":
			details[key] = fmt.Sprintf("exercise #%d is missing a name", i+1)
		case ex.Sets < 0:
			details[key] = "sets must be an integer >= 1"
		case ex.Reps < 0:
			details[key] = "reps must be an integer >= 1"
		case ex.Weight != nil && *ex.Weight < 0:
			details[key] = "weight must be a number >= 0"
		default:
			in.Exercises[i].Name = strings.TrimSpace(ex.Name)
		}
	}
	if len(details) > 0 {
		return in, apperrors.NewValidationError("invalid workout", details)
	}
	return in, nil
}

// CheckInRequest records a visit. An empty member id means the signed-in member.
type CheckInRequest struct {
	MemberID string `json:"member_id" form:"member_id"`
}
