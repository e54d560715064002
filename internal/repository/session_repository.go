package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nexus-suite/helpdesk/internal/domain"
	"github.com/nexus-suite/helpdesk/internal/persistence"
)

// SessionKey is the slot prefix holding a serialized session.
const SessionKey = "nexus_auth_v3"

// SessionRepository persists the single live session of a browser profile.
type SessionRepository interface {
	Load(ctx context.Context, profileID string) (*domain.Session, error)
	Store(ctx context.Context, profileID string, session domain.Session) error
	Clear(ctx context.Context, profileID string) error
}

type sessionRepository struct {
	surface persistence.Surface
}

// NewSessionRepository returns a surface-backed implementation.
func NewSessionRepository(surface persistence.Surface) SessionRepository {
	return &sessionRepository{surface: surface}
}

// SessionSlot returns the key holding profileID's session.
func SessionSlot(profileID string) string {
	if profileID == "" {
		return SessionKey
	}
	return SessionKey + ":" + profileID
}

// Load returns nil when no session is stored. A corrupt value is returned
// as an error rather than treated as logged out.
func (r *sessionRepository) Load(ctx context.Context, profileID string) (*domain.Session, error) {
	raw, found, err := r.surface.Get(ctx, SessionSlot(profileID))
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}
	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Store(ctx context.Context, profileID string, session domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.surface.Set(ctx, SessionSlot(profileID), string(payload)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context, profileID string) error {
	if err := r.surface.Delete(ctx, SessionSlot(profileID)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
