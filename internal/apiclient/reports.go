package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gymflow/portal/internal/domain"
)

func rangeValues(r domain.DateRange) url.Values {
	v := url.Values{}
	if r.StartDate != "" {
		v.Set("startDate", r.StartDate)
	}
	if r.EndDate != "" {
		v.Set("endDate", r.EndDate)
	}
	return v
}

func (c *Client) SummaryReport(ctx context.Context, r domain.DateRange) (*domain.SummaryReport, error) {
	var report domain.SummaryReport
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"reports", "summary"}, query: rangeValues(r), bearer: true}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) AttendanceReport(ctx context.Context, r domain.DateRange) ([]domain.DailyAttendance, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"reports", "attendance"}, query: rangeValues(r), bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.DailyAttendance](raw, "data", "days")
}

func (c *Client) MembershipReport(ctx context.Context, r domain.DateRange) (*domain.MembershipReport, error) {
	var report domain.MembershipReport
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"reports", "membership"}, query: rangeValues(r), bearer: true}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// RevenueReport is passed through untyped; the portal does not interpret it.
func (c *Client) RevenueReport(ctx context.Context, r domain.DateRange) (map[string]any, error) {
	var report map[string]any
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"reports", "revenue"}, query: rangeValues(r), bearer: true}, &report); err != nil {
		return nil, err
	}
	return report, nil
}

func analyticsWindow(days, top int) url.Values {
	v := url.Values{}
	if days > 0 {
		v.Set("days", strconv.Itoa(days))
	}
	if top > 0 {
		v.Set("top", strconv.Itoa(top))
	}
	return v
}

func (c *Client) AttendanceFrequency(ctx context.Context, days, top int) (*domain.AttendanceFrequency, error) {
	var report domain.AttendanceFrequency
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   []string{"admin", "reports", "attendance-frequency"},
		query:  analyticsWindow(days, top),
		bearer: true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) WorkoutsSummary(ctx context.Context, days int) (*domain.WorkoutsSummary, error) {
	var report domain.WorkoutsSummary
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   []string{"admin", "reports", "workouts-summary"},
		query:  analyticsWindow(days, 0),
		bearer: true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) MembersActivity(ctx context.Context, days int) (*domain.MembersActivity, error) {
	var report domain.MembersActivity
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   []string{"admin", "reports", "members-activity"},
		query:  analyticsWindow(days, 0),
		bearer: true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
