package service

import (
	"context"

	"github.com/nexus-suite/helpdesk/internal/auth"
	"github.com/nexus-suite/helpdesk/internal/domain"
	"github.com/nexus-suite/helpdesk/internal/repository"
)

// AuthService checks demo credentials and keeps the persisted session slot.
type AuthService struct {
	directory *auth.Directory
	sessions  repository.SessionRepository
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Directory   *auth.Directory
	SessionRepo repository.SessionRepository
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		directory: deps.Directory,
		sessions:  deps.SessionRepo,
	}
}

// Login stores a session for profileID when the credentials match one of
// the fixed accounts. Any mismatch returns auth.ErrInvalidCredentials and
// leaves the stored session untouched.
func (s *AuthService) Login(ctx context.Context, profileID string, role domain.Role, identifier, secret string) (*domain.Session, error) {
	session, err := s.directory.Check(role, identifier, secret)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Store(ctx, profileID, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout clears the persisted session.
func (s *AuthService) Logout(ctx context.Context, profileID string) error {
	return s.sessions.Clear(ctx, profileID)
}

// Restore returns the persisted session, nil if there is none. Sessions
// never expire.
func (s *AuthService) Restore(ctx context.Context, profileID string) (*domain.Session, error) {
	return s.sessions.Load(ctx, profileID)
}
