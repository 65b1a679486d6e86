package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gymflow/portal/internal/apiclient"
	"github.com/gymflow/portal/internal/domain"
	apperrors "github.com/gymflow/portal/pkg/util"
)

const (
	dashboardAttendanceLimit = 10
	recentItemsLimit         = 5
	defaultAnalyticsDays     = 30
	defaultAnalyticsTop      = 10
)

// AdminDashboardAPI is what the admin overview reads.
type AdminDashboardAPI interface {
	SummaryReport(ctx context.Context, r domain.DateRange) (*domain.SummaryReport, error)
	TodayAttendance(ctx context.Context) ([]domain.Attendance, error)
}

// MemberDashboardAPI is what the member overview reads.
type MemberDashboardAPI interface {
	MyAttendance(ctx context.Context, limit int) ([]domain.Attendance, error)
	ListWorkouts(ctx context.Context, q apiclient.WorkoutQuery) ([]domain.Workout, error)
}

// ReportsAPI is what the reports and analytics views read.
type ReportsAPI interface {
	SummaryReport(ctx context.Context, r domain.DateRange) (*domain.SummaryReport, error)
	AttendanceReport(ctx context.Context, r domain.DateRange) ([]domain.DailyAttendance, error)
	MembershipReport(ctx context.Context, r domain.DateRange) (*domain.MembershipReport, error)
	AttendanceFrequency(ctx context.Context, days, top int) (*domain.AttendanceFrequency, error)
	WorkoutsSummary(ctx context.Context, days int) (*domain.WorkoutsSummary, error)
	MembersActivity(ctx context.Context, days int) (*domain.MembersActivity, error)
}

// AttendanceRow is an attendance record with its display fields resolved.
type AttendanceRow struct {
	domain.Attendance
	DateLabel     string `json:"date_label"`
	Ago           string `json:"ago"`
	CheckInLabel  string `json:"check_in_label"`
	CheckOutLabel string `json:"check_out_label"`
	Duration      string `json:"duration"`
	Active        bool   `json:"active"`
}

// AdminDashboard is the admin landing view.
type AdminDashboard struct {
	Summary    *domain.SummaryReport `json:"summary"`
	TodayTotal int                   `json:"today_total"`
	Today      []AttendanceRow       `json:"today"`
}

// AttendanceBoard is the admin attendance view of today's visits.
type AttendanceBoard struct {
	Search    string          `json:"search,omitempty"`
	Total     int             `json:"total"`
	CheckedIn int             `json:"checked_in"`
	Rows      []AttendanceRow `json:"rows"`
}

// TodayStatus describes the member's visit today, if any.
type TodayStatus struct {
	CheckedIn    bool   `json:"checked_in"`
	Completed    bool   `json:"completed"`
	CheckInLabel string `json:"check_in_label,omitempty"`
}

// MemberDashboard is the member landing view.
type MemberDashboard struct {
	User           *domain.User     `json:"user"`
	Today          TodayStatus      `json:"today"`
	RecentVisits   []AttendanceRow  `json:"recent_visits"`
	RecentWorkouts []domain.Workout `json:"recent_workouts"`
}

// AttendanceHistory is a member's visit history with aggregates.
type AttendanceHistory struct {
	Stats domain.AttendanceStats `json:"stats"`
	Rows  []AttendanceRow        `json:"rows"`
}

// WorkoutBoard is the filtered workout list.
type WorkoutBoard struct {
	Filter   string           `json:"filter"`
	Types    []string         `json:"types"`
	Workouts []domain.Workout `json:"workouts"`
}

// Reports bundles the three date-ranged reports.
type Reports struct {
	Range      domain.DateRange         `json:"range"`
	Summary    *domain.SummaryReport    `json:"summary"`
	Attendance []domain.DailyAttendance `json:"attendance"`
	Membership *domain.MembershipReport `json:"membership"`
}

// Analytics bundles the rolling-window analytics.
type Analytics struct {
	Days      int                         `json:"days"`
	Frequency *domain.AttendanceFrequency `json:"frequency"`
	Workouts  *domain.WorkoutsSummary     `json:"workouts"`
	Activity  *domain.MembersActivity     `json:"activity"`
}

// MemberDetails is the admin view of one member with the dates rendered for display.
type MemberDetails struct {
	Member         *domain.Member      `json:"member"`
	Stats          *domain.MemberStats `json:"stats"`
	JoinedLabel    string              `json:"joined_label"`
	StartLabel     string              `json:"membership_start_label"`
	EndLabel       string              `json:"membership_end_label"`
	LastVisitLabel string              `json:"last_visit_label"`
	LastVisitAgo   string              `json:"last_visit_ago"`
}

// MemberRequestRow is a signup request with its submission date rendered.
type MemberRequestRow struct {
	domain.MemberRequest
	SubmittedLabel string `json:"submitted_label"`
	SubmittedAgo   string `json:"submitted_ago"`
}

// DashboardService assembles portal views out of API data.
type DashboardService struct {
	now func() time.Time
}

// NewDashboardService creates the service.
func NewDashboardService(now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{now: now}
}

// AdminDashboard loads the summary report and the first entries of today's attendance.
func (s *DashboardService) AdminDashboard(ctx context.Context, api AdminDashboardAPI) (*AdminDashboard, error) {
	var (
		summary *domain.SummaryReport
		today   []domain.Attendance
	)
	err := fanOut(ctx,
		func(ctx context.Context) (err error) {
			summary, err = api.SummaryReport(ctx, domain.DateRange{})
			return err
		},
		func(ctx context.Context) (err error) {
			today, err = api.TodayAttendance(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	rows := s.rows(today)
	if len(rows) > dashboardAttendanceLimit {
		rows = rows[:dashboardAttendanceLimit]
	}
	return &AdminDashboard{Summary: summary, TodayTotal: len(today), Today: rows}, nil
}

// AttendanceBoard filters today's visits by member name or email.
func (s *DashboardService) AttendanceBoard(records []domain.Attendance, search string) *AttendanceBoard {
	search = strings.TrimSpace(search)
	needle := strings.ToLower(search)
	filtered := make([]domain.Attendance, 0, len(records))
	for _, record := range records {
		if needle == "" ||
			strings.Contains(strings.ToLower(record.MemberName), needle) ||
			strings.Contains(strings.ToLower(record.MemberEmail), needle) {
			filtered = append(filtered, record)
		}
	}

	board := &AttendanceBoard{Search: search, Total: len(filtered), Rows: s.rows(filtered)}
	for _, record := range filtered {
		if record.CheckedIn() {
			board.CheckedIn++
		}
	}
	return board
}

// MemberDashboard loads today's status, recent visits and recent workouts for user.
func (s *DashboardService) MemberDashboard(ctx context.Context, api MemberDashboardAPI, user *domain.User) (*MemberDashboard, error) {
	var (
		visits   []domain.Attendance
		workouts []domain.Workout
	)
	err := fanOut(ctx,
		func(ctx context.Context) (err error) {
			visits, err = api.MyAttendance(ctx, recentItemsLimit)
			return err
		},
		func(ctx context.Context) (err error) {
			workouts, err = api.ListWorkouts(ctx, apiclient.WorkoutQuery{Limit: recentItemsLimit})
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	if len(workouts) > recentItemsLimit {
		workouts = workouts[:recentItemsLimit]
	}
	rows := s.rows(visits)
	if len(rows) > recentItemsLimit {
		rows = rows[:recentItemsLimit]
	}
	return &MemberDashboard{
		User:           user,
		Today:          s.todayStatus(visits),
		RecentVisits:   rows,
		RecentWorkouts: workouts,
	}, nil
}

// todayStatus looks at the newest visit that started on the current calendar day.
func (s *DashboardService) todayStatus(visits []domain.Attendance) TodayStatus {
	now := s.now()
	var latest *domain.Attendance
	for i := range visits {
		v := &visits[i]
		if v.CheckIn == nil || !sameDay(v.CheckIn.In(now.Location()), now) {
			continue
		}
		if latest == nil || v.CheckIn.After(*latest.CheckIn) {
			latest = v
		}
	}
	if latest == nil {
		return TodayStatus{}
	}
	return TodayStatus{
		CheckedIn:    latest.CheckedIn(),
		Completed:    !latest.CheckedIn(),
		CheckInLabel: apperrors.FormatTime(latest.CheckIn),
	}
}

// AttendanceHistory aggregates a visit history: total, this calendar month and the last 7 days.
func (s *DashboardService) AttendanceHistory(records []domain.Attendance) *AttendanceHistory {
	now := s.now()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	stats := domain.AttendanceStats{Total: len(records)}
	for _, r := range records {
		if r.CheckIn == nil {
			continue
		}
		at := r.CheckIn.In(now.Location())
		if at.Year() == now.Year() && at.Month() == now.Month() {
			stats.ThisMonth++
		}
		if at.After(weekAgo) {
			stats.ThisWeek++
		}
	}
	return &AttendanceHistory{Stats: stats, Rows: s.rows(records)}
}

// WorkoutBoard filters workouts by type. An empty filter or "all" keeps everything.
func (s *DashboardService) WorkoutBoard(workouts []domain.Workout, filter string) *WorkoutBoard {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = "all"
	}
	seen := make(map[string]struct{})
	types := make([]string, 0)
	kept := make([]domain.Workout, 0, len(workouts))
	for _, w := range workouts {
		if _, ok := seen[w.Type]; !ok && w.Type != "" {
			seen[w.Type] = struct{}{}
			types = append(types, w.Type)
		}
		if filter == "all" || w.Type == filter {
			kept = append(kept, w)
		}
	}
	sort.Strings(types)
	return &WorkoutBoard{Filter: filter, Types: types, Workouts: kept}
}

// DefaultRange is the first of the current month through today.
func (s *DashboardService) DefaultRange() domain.DateRange {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return domain.DateRange{StartDate: first.Format(time.DateOnly), EndDate: now.Format(time.DateOnly)}
}

// NormalizeRange fills missing bounds from DefaultRange and rejects malformed or inverted ranges.
func (s *DashboardService) NormalizeRange(r domain.DateRange) (domain.DateRange, error) {
	def := s.DefaultRange()
	if strings.TrimSpace(r.StartDate) == "" {
		r.StartDate = def.StartDate
	}
	if strings.TrimSpace(r.EndDate) == "" {
		r.EndDate = def.EndDate
	}
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return r, apperrors.NewValidationError("startDate must be YYYY-MM-DD", map[string]any{"startDate": r.StartDate})
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return r, apperrors.NewValidationError("endDate must be YYYY-MM-DD", map[string]any{"endDate": r.EndDate})
	}
	if end.Before(start) {
		return r, apperrors.NewValidationError("endDate is before startDate", nil)
	}
	return r, nil
}

// Reports loads the summary, attendance and membership reports for one range.
func (s *DashboardService) Reports(ctx context.Context, api ReportsAPI, r domain.DateRange) (*Reports, error) {
	r, err := s.NormalizeRange(r)
	if err != nil {
		return nil, err
	}
	out := &Reports{Range: r}
	err = fanOut(ctx,
		func(ctx context.Context) (err error) {
			out.Summary, err = api.SummaryReport(ctx, r)
			return err
		},
		func(ctx context.Context) (err error) {
			out.Attendance, err = api.AttendanceReport(ctx, r)
			return err
		},
		func(ctx context.Context) (err error) {
			out.Membership, err = api.MembershipReport(ctx, r)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Analytics loads the rolling-window analytics. Non-positive days or top fall back to defaults.
func (s *DashboardService) Analytics(ctx context.Context, api ReportsAPI, days, top int) (*Analytics, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if top <= 0 {
		top = defaultAnalyticsTop
	}
	out := &Analytics{Days: days}
	err := fanOut(ctx,
		func(ctx context.Context) (err error) {
			out.Frequency, err = api.AttendanceFrequency(ctx, days, top)
			return err
		},
		func(ctx context.Context) (err error) {
			out.Workouts, err = api.WorkoutsSummary(ctx, days)
			return err
		},
		func(ctx context.Context) (err error) {
			out.Activity, err = api.MembersActivity(ctx, days)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MemberDetails renders the member's dates. stats may be nil.
func (s *DashboardService) MemberDetails(member *domain.Member, stats *domain.MemberStats) *MemberDetails {
	view := &MemberDetails{
		Member:         member,
		Stats:          stats,
		JoinedLabel:    apperrors.Placeholder,
		StartLabel:     apperrors.Placeholder,
		EndLabel:       apperrors.Placeholder,
		LastVisitLabel: apperrors.Placeholder,
		LastVisitAgo:   apperrors.Placeholder,
	}
	if member != nil {
		view.JoinedLabel = apperrors.FormatDate(member.CreatedAt)
		view.StartLabel = apperrors.FormatDate(member.MembershipStart)
		view.EndLabel = apperrors.FormatDate(member.MembershipEnd)
	}
	if stats != nil {
		view.LastVisitLabel = apperrors.FormatDateTime(stats.LastVisit)
		view.LastVisitAgo = apperrors.RelativeTime(stats.LastVisit, s.now())
	}
	return view
}

// MemberRequestRows renders when each request was submitted.
func (s *DashboardService) MemberRequestRows(requests []domain.MemberRequest) []MemberRequestRow {
	now := s.now()
	rows := make([]MemberRequestRow, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, MemberRequestRow{
			MemberRequest:  r,
			SubmittedLabel: apperrors.FormatDateTime(r.CreatedAt),
			SubmittedAgo:   apperrors.RelativeTime(r.CreatedAt, now),
		})
	}
	return rows
}

// FilterMembers matches search against name and email, case-insensitively, and keeps only
// members in status. An empty status or "all" keeps every status.
func FilterMembers(members []domain.Member, search, status string) []domain.Member {
	needle := strings.ToLower(strings.TrimSpace(search))
	status = strings.ToLower(strings.TrimSpace(status))
	out := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.Name), needle) &&
			!strings.Contains(strings.ToLower(m.Email), needle) {
			continue
		}
		if status != "" && status != "all" && string(m.Status) != status {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *DashboardService) rows(records []domain.Attendance) []AttendanceRow {
	now := s.now()
	rows := make([]AttendanceRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, AttendanceRow{
			Attendance:    r,
			DateLabel:     apperrors.FormatDate(r.CheckIn),
			Ago:           apperrors.RelativeTime(r.CheckIn, now),
			CheckInLabel:  apperrors.FormatDateTime(r.CheckIn),
			CheckOutLabel: apperrors.FormatTime(r.CheckOut),
			Duration:      apperrors.SessionDuration(r.CheckIn, r.CheckOut),
			Active:        r.CheckedIn(),
		})
	}
	return rows
}

// fanOut runs calls in parallel and returns the first failure. A session rejection reported by
// any call is returned in preference to other failures, since the session is already cleared.
func fanOut(ctx context.Context, calls ...func(context.Context) error) error {
	var (
		mu       sync.Mutex
		rejected error
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, call := range calls {
		g.Go(func() error {
			err := call(gctx)
			if apperrors.HasCode(err, apperrors.CodeSessionRejected) {
				mu.Lock()
				if rejected == nil {
					rejected = err
				}
				mu.Unlock()
			}
			return err
		})
	}
	err := g.Wait()
	if rejected != nil {
		return rejected
	}
	return err
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DefaultWorkoutTypes is offered when the API cannot list workout types.
var DefaultWorkoutTypes = []domain.WorkoutType{
	{ID: 1, Name: "Strength Training"},
	{ID: 2, Name: "Cardio"},
	{ID: 3, Name: "HIIT"},
	{ID: 4, Name: "Yoga"},
	{ID: 5, Name: "Other"},
}
