package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gymflow/portal/internal/domain"
)

// WorkoutQuery filters the workout list server-side.
type WorkoutQuery struct {
	Limit    int
	Type     string
	MemberID domain.ID
}

func (q WorkoutQuery) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.MemberID > 0 {
		v.Set("member_id", q.MemberID.String())
	}
	return v
}

func (c *Client) ListWorkouts(ctx context.Context, q WorkoutQuery) ([]domain.Workout, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"workouts"}, query: q.values(), bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Workout](raw, "workouts", "data")
}

func (c *Client) GetWorkout(ctx context.Context, id domain.ID) (*domain.Workout, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"workouts", id.String()}, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.Workout](raw, "workout", "data")
}

func (c *Client) CreateWorkout(ctx context.Context, in domain.WorkoutInput) (*domain.Workout, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPost, path: []string{"workouts"}, body: in, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.Workout](raw, "workout", "data")
}

func (c *Client) UpdateWorkout(ctx context.Context, id domain.ID, in domain.WorkoutInput) (*domain.Workout, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPut, path: []string{"workouts", id.String()}, body: in, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.Workout](raw, "workout", "data")
}

func (c *Client) DeleteWorkout(ctx context.Context, id domain.ID) error {
	return c.do(ctx, call{method: http.MethodDelete, path: []string{"workouts", id.String()}, bearer: true}, nil)
}

// WorkoutTypes lists the selectable workout categories.
func (c *Client) WorkoutTypes(ctx context.Context) ([]domain.WorkoutType, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"workouts", "types"}, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.WorkoutType](raw, "types", "data")
}
