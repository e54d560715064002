package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nexus-suite/helpdesk/internal/domain"
)

const principalKey = "auth_principal"

// Principal represents the calling browser profile and its session, if any.
type Principal struct {
	ProfileID string
	Session   *domain.Session
}

// Authenticated reports whether the profile holds a live session.
func (p *Principal) Authenticated() bool {
	return p != nil && p.Session != nil
}

// SessionResolver returns the live session of a profile, nil when logged out.
type SessionResolver interface {
	CurrentSession(ctx context.Context, profileID string) (*domain.Session, error)
}

// ProfileMiddleware identifies the browser profile from a signed cookie,
// issuing a fresh profile when the cookie is missing or invalid.
type ProfileMiddleware struct {
	tokens     *TokenManager
	sessions   SessionResolver
	cookieName string
}

// NewProfileMiddleware constructs middleware.
func NewProfileMiddleware(tokens *TokenManager, sessions SessionResolver, cookieName string) *ProfileMiddleware {
	return &ProfileMiddleware{tokens: tokens, sessions: sessions, cookieName: cookieName}
}

// Handle loads the principal for every request.
func (m *ProfileMiddleware) Handle(c *fiber.Ctx) error {
	profileID := ""
	if raw := c.Cookies(m.cookieName); raw != "" {
		if claims, err := m.tokens.ParseToken(raw); err == nil {
			profileID = claims.ProfileID
		}
	}

	if profileID == "" {
		id, token, err := m.tokens.NewProfile()
		if err != nil {
			return err
		}
		profileID = id
		c.Cookie(&fiber.Cookie{
			Name:     m.cookieName,
			Value:    token,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Now().AddDate(10, 0, 0),
		})
	}

	session, err := m.sessions.CurrentSession(c.UserContext(), profileID)
	if err != nil {
		return err
	}

	c.Locals(principalKey, &Principal{ProfileID: profileID, Session: session})
	return c.Next()
}

// PrincipalFromContext retrieves the calling profile.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
