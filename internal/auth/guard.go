package auth

import (
	"github.com/gymflow/portal/internal/domain"
	"github.com/gymflow/portal/internal/session"
)

// Decision is the outcome of a guard for one navigation.
type Decision int

const (
	// Pending: the session is still hydrating; render the loading view, decide nothing.
	Pending Decision = iota
	// Rejected: the view needs a session and there is none; go to login.
	Rejected
	// Forbidden: the session lacks the role (or, for login, already exists); go to its landing.
	Forbidden
	// Granted: render the view.
	Granted
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Rejected:
		return "rejected"
	case Forbidden:
		return "forbidden"
	default:
		return "granted"
	}
}

// Requirement is what a view asks of the session.
type Requirement int

const (
	AuthenticatedOnly Requirement = iota
	AdminOnly
	// PublicOnly is the login rule: reachable only while signed out.
	PublicOnly
)

// Routes names the redirect targets. They belong to the routing configuration.
type Routes struct {
	Login        string
	AdminLanding string
	UserLanding  string
}

// LandingFor returns the default view of role.
func (r Routes) LandingFor(role domain.Role) string {
	if role == domain.RoleAdmin {
		return r.AdminLanding
	}
	return r.UserLanding
}

// Viewer is the read side of a session a guard consults.
type Viewer interface {
	State() session.State
	IsAdmin() bool
	Role() domain.Role
}

// Outcome pairs a decision with its redirect target, if any.
type Outcome struct {
	Decision Decision
	Redirect string
}

// Evaluate runs the guard state machine. A hydrating session is always Pending, so no redirect
// is ever issued before hydration completes.
func Evaluate(v Viewer, req Requirement, routes Routes) Outcome {
	state := v.State()
	if state == session.StatePending {
		return Outcome{Decision: Pending}
	}
	authenticated := state == session.StateAuthenticated

	switch req {
	case PublicOnly:
		if authenticated {
			return Outcome{Decision: Forbidden, Redirect: routes.LandingFor(v.Role())}
		}
		return Outcome{Decision: Granted}
	case AdminOnly:
		if !authenticated {
			return Outcome{Decision: Rejected, Redirect: routes.Login}
		}
		if !v.IsAdmin() {
			return Outcome{Decision: Forbidden, Redirect: routes.LandingFor(v.Role())}
		}
		return Outcome{Decision: Granted}
	default:
		if !authenticated {
			return Outcome{Decision: Rejected, Redirect: routes.Login}
		}
		return Outcome{Decision: Granted}
	}
}
