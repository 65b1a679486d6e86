package domain

import "time"

// Attendance is a single check-in record.
type Attendance struct {
	ID          ID         `json:"id"`
	MemberID    ID         `json:"member_id"`
	MemberName  string     `json:"member_name,omitempty"`
	MemberEmail string     `json:"member_email,omitempty"`
	CheckIn     *time.Time `json:"check_in,omitempty"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
}

// CheckedIn reports whether the visit is still open.
func (a Attendance) CheckedIn() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

// CheckInResult is the API acknowledgement of a check-in.
type CheckInResult struct {
	Message    string      `json:"message"`
	Attendance *Attendance `json:"attendance,omitempty"`
}

// AttendanceStats aggregates a visit history.
type AttendanceStats struct {
	Total     int `json:"total"`
	ThisMonth int `json:"this_month"`
	ThisWeek  int `json:"this_week"`
}
