package domain

import "time"

// MemberStatus is the membership lifecycle as reported by the API.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
	MemberStatusExpired  MemberStatus = "expired"
)

// Member is a gym member record.
type Member struct {
	ID              ID           `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone,omitempty"`
	MembershipType  string       `json:"membership_type,omitempty"`
	MembershipStart *time.Time   `json:"membership_start,omitempty"`
	MembershipEnd   *time.Time   `json:"membership_end,omitempty"`
	Status          MemberStatus `json:"status"`
	CreatedAt       *time.Time   `json:"created_at,omitempty"`
}

// MemberInput is the editable subset of a member.
type MemberInput struct {
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone,omitempty"`
	MembershipType  string       `json:"membership_type"`
	MembershipStart string       `json:"membership_start,omitempty"`
	MembershipEnd   string       `json:"membership_end,omitempty"`
	Status          MemberStatus `json:"status"`
}

// MemberStats summarises a single member's activity.
type MemberStats struct {
	TotalVisits     int        `json:"totalVisits"`
	VisitsThisMonth int        `json:"visitsThisMonth"`
	TotalWorkouts   int        `json:"totalWorkouts"`
	LastVisit       *time.Time `json:"lastVisit,omitempty"`
}

// MemberRequestStatus tracks a signup request through review.
type MemberRequestStatus string

const (
	MemberRequestPending  MemberRequestStatus = "pending"
	MemberRequestApproved MemberRequestStatus = "approved"
	MemberRequestRejected MemberRequestStatus = "rejected"
)

// MemberRequest is a public membership signup awaiting admin review.
type MemberRequest struct {
	ID        ID                  `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Phone     string              `json:"phone"`
	Plan      string              `json:"plan"`
	Status    MemberRequestStatus `json:"status"`
	CreatedAt *time.Time          `json:"created_at,omitempty"`
}

// MemberRequestInput is the public signup form.
type MemberRequestInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Plan  string `json:"plan"`
}
