// Package view selects and renders the top-level screen of a browser profile.
package view

import (
	"errors"
	"sync"

	"github.com/nexus-suite/helpdesk/internal/domain"
)

// ErrInvalidTransition is returned when an action is not allowed from the current view.
var ErrInvalidTransition = errors.New("view: invalid transition")

// Name is the wire identifier of a view.
type Name string

const (
	NameLanding           Name = "landing"
	NameLogin             Name = "login"
	NameEmployeeDashboard Name = "employee_dashboard"
	NameAdminDashboard    Name = "admin_dashboard"
)

// View is one of Landing, Login, EmployeeDashboard or AdminDashboard.
type View interface {
	Name() Name
	sealed()
}

// Landing is the unauthenticated marketing view.
type Landing struct{}

// Login is the credential entry view. Error holds the last rejection.
type Login struct {
	Error string
}

// EmployeeDashboard hosts the chat assistant and ticket submission.
type EmployeeDashboard struct {
	Session domain.Session
}

// AdminDashboard lists tickets and closes them.
type AdminDashboard struct {
	Session domain.Session
}

func (Landing) Name() Name           { return NameLanding }
func (Login) Name() Name             { return NameLogin }
func (EmployeeDashboard) Name() Name { return NameEmployeeDashboard }
func (AdminDashboard) Name() Name    { return NameAdminDashboard }

func (Landing) sealed()           {}
func (Login) sealed()             {}
func (EmployeeDashboard) sealed() {}
func (AdminDashboard) sealed()    {}

// DashboardFor picks the authenticated view for a session's role.
func DashboardFor(session domain.Session) View {
	if session.Role == domain.RoleAdmin {
		return AdminDashboard{Session: session}
	}
	return EmployeeDashboard{Session: session}
}

// Router holds the current view of one browser profile.
type Router struct {
	mu      sync.Mutex
	current View
}

// NewRouter starts on the landing view, or directly on the dashboard when a
// persisted session is supplied.
func NewRouter(restored *domain.Session) *Router {
	r := &Router{current: Landing{}}
	if restored != nil {
		r.current = DashboardFor(*restored)
	}
	return r
}

// Current returns the active view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OpenLogin moves from the landing view to credential entry.
func (r *Router) OpenLogin() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.current.(type) {
	case Landing:
		r.current = Login{}
	case Login:
	default:
		return r.current, ErrInvalidTransition
	}
	return r.current, nil
}

// Back returns from credential entry to the landing view.
func (r *Router) Back() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.current.(Login); !ok {
		return r.current, ErrInvalidTransition
	}
	r.current = Landing{}
	return r.current, nil
}

// Authenticated enters the dashboard for session unconditionally.
func (r *Router) Authenticated(session domain.Session) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = DashboardFor(session)
	return r.current
}

// Rejected keeps the profile on the login view with message shown.
func (r *Router) Rejected(message string) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Login{Error: message}
	return r.current
}

// LoggedOut returns to the landing view.
func (r *Router) LoggedOut() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Landing{}
	return r.current
}
