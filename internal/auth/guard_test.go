package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gymflow/portal/internal/domain"
	"github.com/gymflow/portal/internal/session"
)

type stubViewer struct {
	state session.State
	role  domain.Role
}

func (v stubViewer) State() session.State { return v.state }
func (v stubViewer) IsAdmin() bool        { return v.role == domain.RoleAdmin }
func (v stubViewer) Role() domain.Role    { return v.role }

var testRoutes = Routes{Login: "/login", AdminLanding: "/admin/dashboard", UserLanding: "/dashboard"}

func TestEvaluate(t *testing.T) {
	pending := stubViewer{state: session.StatePending}
	anonymous := stubViewer{state: session.StateUnauthenticated}
	admin := stubViewer{state: session.StateAuthenticated, role: domain.RoleAdmin}
	member := stubViewer{state: session.StateAuthenticated, role: domain.RoleUser}

	tests := []struct {
		name   string
		viewer stubViewer
		req    Requirement
		want   Outcome
	}{
		{"pending admin view", pending, AdminOnly, Outcome{Decision: Pending}},
		{"pending user view", pending, AuthenticatedOnly, Outcome{Decision: Pending}},
		{"pending login view", pending, PublicOnly, Outcome{Decision: Pending}},
		{"anonymous admin view", anonymous, AdminOnly, Outcome{Decision: Rejected, Redirect: "/login"}},
		{"anonymous user view", anonymous, AuthenticatedOnly, Outcome{Decision: Rejected, Redirect: "/login"}},
		{"anonymous login view", anonymous, PublicOnly, Outcome{Decision: Granted}},
		{"member admin view", member, AdminOnly, Outcome{Decision: Forbidden, Redirect: "/dashboard"}},
		{"member user view", member, AuthenticatedOnly, Outcome{Decision: Granted}},
		{"member login view", member, PublicOnly, Outcome{Decision: Forbidden, Redirect: "/dashboard"}},
		{"admin admin view", admin, AdminOnly, Outcome{Decision: Granted}},
		{"admin user view", admin, AuthenticatedOnly, Outcome{Decision: Granted}},
		{"admin login view", admin, PublicOnly, Outcome{Decision: Forbidden, Redirect: "/admin/dashboard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.viewer, tt.req, testRoutes))
		})
	}
}

func TestLandingFor(t *testing.T) {
	assert.Equal(t, "/admin/dashboard", testRoutes.LandingFor(domain.RoleAdmin))
	assert.Equal(t, "/dashboard", testRoutes.LandingFor(domain.RoleUser))
}
