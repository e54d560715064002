package dto

import (
	"github.com/nexus-suite/helpdesk/internal/domain"
	"github.com/nexus-suite/helpdesk/internal/view"
)

// LoginRequest payload. Field checks beyond size are left to the
// credential check so every mismatch yields the same rejection.
type LoginRequest struct {
	Role     domain.Role `json:"role" validate:"max=16"`
	Username string      `json:"username" validate:"max=128"`
	Password string      `json:"password" validate:"max=128"`
}

// ViewResponse reports the view a profile landed on.
type ViewResponse struct {
	View    view.Name       `json:"view"`
	Session *domain.Session `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewViewResponse describes v.
func NewViewResponse(v view.View) ViewResponse {
	resp := ViewResponse{View: v.Name()}
	switch cur := v.(type) {
	case view.Login:
		resp.Error = cur.Error
	case view.EmployeeDashboard:
		resp.Session = &cur.Session
	case view.AdminDashboard:
		resp.Session = &cur.Session
	}
	return resp
}
