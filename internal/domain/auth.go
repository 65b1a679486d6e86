package domain

// AuthResult is returned by the credential exchange and registration endpoints.
type AuthResult struct {
	Token string `json:"access_token"`
	User  *User  `json:"user"`
}

// Registration is the payload for invite-based account creation.
type Registration struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	Role       Role   `json:"role"`
	InviteCode string `json:"inviteCode,omitempty"`
}

// MinPasswordLength is the shortest password accepted by the reset flow.
const MinPasswordLength = 8
