package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gymflow/portal/internal/domain"
)

// CheckIn records a visit for memberID.
func (c *Client) CheckIn(ctx context.Context, memberID domain.ID) (*domain.CheckInResult, error) {
	var result domain.CheckInResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"attendance", "checkin"},
		body:   map[string]domain.ID{"member_id": memberID},
		bearer: true,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AttendanceHistory lists the visits of one member.
func (c *Client) AttendanceHistory(ctx context.Context, memberID domain.ID) ([]domain.Attendance, error) {
	return c.attendanceList(ctx, call{method: http.MethodGet, path: []string{"attendance", "history", memberID.String()}, bearer: true})
}

// TodayAttendance lists today's visits across the facility.
func (c *Client) TodayAttendance(ctx context.Context) ([]domain.Attendance, error) {
	return c.attendanceList(ctx, call{method: http.MethodGet, path: []string{"attendance", "today"}, bearer: true})
}

// MyAttendance lists the signed-in member's visits, newest first. limit <= 0 means all.
func (c *Client) MyAttendance(ctx context.Context, limit int) ([]domain.Attendance, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	return c.attendanceList(ctx, call{method: http.MethodGet, path: []string{"attendance", "my-history"}, query: q, bearer: true})
}

func (c *Client) attendanceList(ctx context.Context, cl call) ([]domain.Attendance, error) {
	var raw json.RawMessage
	if err := c.do(ctx, cl, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Attendance](raw, "attendance", "data")
}
