package domain

// DateRange bounds a report query. Dates are YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// SummaryReport is the facility overview.
type SummaryReport struct {
	TotalMembers   int     `json:"totalMembers"`
	ActiveMembers  int     `json:"activeMembers"`
	NewMembers     int     `json:"newMembers"`
	TotalCheckins  int     `json:"totalCheckins"`
	AvgDailyVisits float64 `json:"avgDailyVisits"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
}

// DailyAttendance is one row of the attendance report.
type DailyAttendance struct {
	Date          string `json:"date"`
	Checkins      int    `json:"checkins"`
	UniqueMembers int    `json:"uniqueMembers"`
	PeakHour      string `json:"peakHour,omitempty"`
}

// MembershipReport breaks memberships down by state.
type MembershipReport struct {
	Active            int     `json:"active"`
	Expired           int     `json:"expired"`
	ExpiringThisMonth int     `json:"expiringThisMonth"`
	RenewalRate       float64 `json:"renewalRate"`
}

// MemberCheckins counts visits for one member.
type MemberCheckins struct {
	MemberID   ID     `json:"memberId"`
	MemberName string `json:"memberName"`
	Checkins   int    `json:"checkins"`
}

// AttendanceFrequency is the analytics view of visit frequency.
type AttendanceFrequency struct {
	TotalCheckins        int              `json:"totalCheckins"`
	AvgCheckinsPerMember float64          `json:"avgCheckinsPerMember"`
	TopMembers           []MemberCheckins `json:"topMembers"`
}

// WorkoutTypeCount counts workouts of one type.
type WorkoutTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// WorkoutsSummary is the analytics view of logged workouts.
type WorkoutsSummary struct {
	TotalWorkouts int                `json:"totalWorkouts"`
	AvgDuration   float64            `json:"avgDuration"`
	ByType        []WorkoutTypeCount `json:"byType"`
}

// MembersActivity is the analytics view of active vs inactive members.
type MembersActivity struct {
	TotalMembers    int `json:"totalMembers"`
	ActiveMembers   int `json:"activeMembers"`
	InactiveMembers int `json:"inactiveMembers"`
}
