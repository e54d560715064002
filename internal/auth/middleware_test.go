package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-suite/helpdesk/internal/domain"
	apperrors "github.com/nexus-suite/helpdesk/pkg/errorutil"
)

type staticSessions map[string]*domain.Session

func (s staticSessions) CurrentSession(_ context.Context, profileID string) (*domain.Session, error) {
	return s[profileID], nil
}

func newTestApp(tm *TokenManager, sessions SessionResolver, guard ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	mw := NewProfileMiddleware(tm, sessions, "nexus_profile")
	handlers := append([]fiber.Handler{mw.Handle}, guard...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(p.ProfileID)
	})
	app.Get("/", handlers...)
	return app
}

func TestProfileMiddlewareIssuesCookie(t *testing.T) {
	tm := NewTokenManager("secret")
	app := newTestApp(tm, staticSessions{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "nexus_profile", cookies[0].Name)

	claims, err := tm.ParseToken(cookies[0].Value)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ProfileID)
}

func TestProfileMiddlewareReusesCookie(t *testing.T) {
	tm := NewTokenManager("secret")
	token, err := tm.GenerateToken("profile-7")
	require.NoError(t, err)
	app := newTestApp(tm, staticSessions{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "nexus_profile", Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Cookies())
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("secret")
	sessions := staticSessions{
		"emp": {Role: domain.RoleUser, Name: "Alex Johnson"},
		"adm": {Role: domain.RoleAdmin, Name: "Sarah Miller"},
	}
	app := newTestApp(tm, sessions, RequireRole(domain.RoleAdmin))

	tests := []struct {
		profile string
		want    int
	}{
		{profile: "adm", want: http.StatusOK},
		{profile: "emp", want: http.StatusForbidden},
		{profile: "anon", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			token, err := tm.GenerateToken(tt.profile)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "nexus_profile", Value: token})
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
