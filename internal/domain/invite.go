package domain

import "time"

// Invite is a one-time code that allows creating an admin account.
type Invite struct {
	ID        ID         `json:"id"`
	Code      string     `json:"code"`
	Active    bool       `json:"active"`
	CreatedBy string     `json:"created_by,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
