package domain

import "strings"

// Role differentiates employees from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Session is the authenticated identity of a browser profile.
type Session struct {
	Role Role   `json:"role"`
	Name string `json:"name"`
}

// FirstName returns the leading word of the display name.
func (s Session) FirstName() string {
	if fields := strings.Fields(s.Name); len(fields) > 0 {
		return fields[0]
	}
	return s.Name
}
