package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexus-suite/helpdesk/internal/api/http/handlers"
	"github.com/nexus-suite/helpdesk/internal/auth"
	"github.com/nexus-suite/helpdesk/internal/completion"
	"github.com/nexus-suite/helpdesk/internal/observability"
	"github.com/nexus-suite/helpdesk/internal/persistence"
	"github.com/nexus-suite/helpdesk/internal/repository"
	"github.com/nexus-suite/helpdesk/internal/service"
	"github.com/nexus-suite/helpdesk/internal/worker"
)

type completerFunc func(ctx context.Context, req completion.Request) (string, error)

func (f completerFunc) Complete(ctx context.Context, req completion.Request) (string, error) {
	return f(ctx, req)
}

func echoCompleter() completerFunc {
	return func(_ context.Context, req completion.Request) (string, error) {
		return "- Check " + req.Prompt, nil
	}
}

func newTestServer(t *testing.T, surface persistence.Surface, completer service.Completer) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	dir, err := auth.NewDirectory(4, auth.DemoAccounts...)
	require.NoError(t, err)

	ticketSvc := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(surface),
		Logger:     logger,
	})
	poller := worker.NewTicketPoller(ticketSvc, 0, logger)
	require.NoError(t, poller.Refresh(context.Background()))

	authSvc := service.NewAuthService(service.AuthDependencies{
		Directory:   dir,
		SessionRepo: repository.NewSessionRepository(surface),
	})
	profiles := service.NewProfileService(service.ProfileDependencies{
		Auth:      authSvc,
		Completer: completer,
		Snapshot:  poller,
		Observer:  metrics,
		Logger:    logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:            handlers.NewHealthHandler("nexus-helpdesk", "test", "memory", persistence.NewMemory()),
		Metrics:           handlers.NewMetricsHandler(metrics),
		View:              handlers.NewViewHandler(profiles),
		Auth:              handlers.NewAuthHandler(profiles),
		Tickets:           handlers.NewTicketsHandler(ticketSvc, poller),
		Chat:              handlers.NewChatHandler(profiles, ticketSvc),
		ProfileMiddleware: auth.NewProfileMiddleware(auth.NewTokenManager("test-secret"), profiles, "nexus_profile"),
	})
	return app
}

// browser keeps the profile cookie between requests.
type browser struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

func (b *browser) do(method, path string, body any) (int, map[string]any) {
	b.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if b.cookie != "" {
		req.Header.Set(fiber.HeaderCookie, "nexus_profile="+b.cookie)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == "nexus_profile" {
			b.cookie = c.Value
		}
	}
	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	if len(raw) > 0 {
		require.NoError(b.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (b *browser) login(role, username, password string) int {
	b.t.Helper()
	status, _ := b.do(fiber.MethodPost, "/view/login", nil)
	require.Equal(b.t, fiber.StatusOK, status)
	status, _ = b.do(fiber.MethodPost, "/auth/login", map[string]string{
		"role": role, "username": username, "password": password,
	})
	return status
}

func data(body map[string]any) map[string]any {
	d, _ := body["data"].(map[string]any)
	return d
}

func errorOf(body map[string]any) map[string]any {
	e, _ := body["error"].(map[string]any)
	return e
}

func TestHealthAndMetrics(t *testing.T) {
	b := &browser{t: t, app: newTestServer(t, persistence.NewMemory(), echoCompleter())}

	status, body := b.do(fiber.MethodGet, "/health/live", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = b.do(fiber.MethodGet, "/health/ready", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, body = b.do(fiber.MethodGet, "/metrics", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "requests")

	status, body = b.do(fiber.MethodGet, "/nowhere", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorOf(body)["code"])
}

func TestWrongAdminPasswordStaysOnLogin(t *testing.T) {
	b := &browser{t: t, app: newTestServer(t, persistence.NewMemory(), echoCompleter())}

	status, body := b.do(fiber.MethodGet, "/view", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "landing", data(body)["view"])
	require.NotEmpty(t, b.cookie)

	status = b.login("admin", "admin", "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = b.do(fiber.MethodGet, "/view", nil)
	require.Equal(t, fiber.StatusOK, status)
	page := data(body)
	assert.Equal(t, "login", page["view"])
	login, _ := page["login"].(map[string]any)
	assert.Equal(t, auth.RejectionMessage, login["error"])

	status, _ = b.do(fiber.MethodGet, "/tickets", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRejectedLoginMessage(t *testing.T) {
	b := &browser{t: t, app: newTestServer(t, persistence.NewMemory(), echoCompleter())}
	_, _ = b.do(fiber.MethodPost, "/view/login", nil)

	status, body := b.do(fiber.MethodPost, "/auth/login", map[string]string{
		"role": "user", "username": "admin", "password": "admin123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, auth.RejectionMessage, errorOf(body)["message"])
}

func TestViewNavigation(t *testing.T) {
	b := &browser{t: t, app: newTestServer(t, persistence.NewMemory(), echoCompleter())}

	status, _ := b.do(fiber.MethodPost, "/view/back", nil)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body := b.do(fiber.MethodPost, "/view/login", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "login", data(body)["view"])

	status, body = b.do(fiber.MethodPost, "/view/back", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "landing", data(body)["view"])
}

func TestVPNTicketScenario(t *testing.T) {
	surface := persistence.NewMemory()
	app := newTestServer(t, surface, echoCompleter())
	alex := &browser{t: t, app: app}
	sarah := &browser{t: t, app: app}

	require.Equal(t, fiber.StatusOK, alex.login("user", "user", "user123"))

	status, body := alex.do(fiber.MethodPost, "/chat/messages", map[string]string{"text": "VPN down"})
	require.Equal(t, fiber.StatusOK, status)
	msgs, _ := data(body)["messages"].([]any)
	require.Len(t, msgs, 3)
	last, _ := msgs[2].(map[string]any)
	assert.Equal(t, "- Check VPN down", last["text"])
	assert.Equal(t, true, last["canEscalate"])

	status, body = alex.do(fiber.MethodGet, "/chat/escalation", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Issue Not Resolved via Chat: VPN down", data(body)["description"])

	status, body = alex.do(fiber.MethodPost, "/tickets", map[string]string{
		"category": "IT", "priority": "P1", "description": "VPN down",
	})
	require.Equal(t, fiber.StatusCreated, status)
	created := data(body)
	assert.Equal(t, "Open", created["status"])
	assert.Equal(t, "Alex Johnson", created["userName"])
	id, _ := created["id"].(string)
	assert.Regexp(t, `^INC-[0-9A-Z]{6}$`, id)

	status, _ = alex.do(fiber.MethodGet, "/tickets", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	require.Equal(t, fiber.StatusOK, sarah.login("admin", "admin", "admin123"))
	status, body = sarah.do(fiber.MethodGet, "/tickets", nil)
	require.Equal(t, fiber.StatusOK, status)
	list := data(body)
	assert.EqualValues(t, 1, list["open"])
	assert.EqualValues(t, 1, list["p1"])

	status, body = sarah.do(fiber.MethodGet, "/tickets/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "VPN down", data(body)["description"])
	assert.Equal(t, "P1", data(body)["priority"])

	status, body = sarah.do(fiber.MethodGet, "/tickets/INC-ZZZZZZ", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorOf(body)["code"])

	status, _ = alex.do(fiber.MethodGet, "/tickets/"+id, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = sarah.do(fiber.MethodPost, "/tickets/"+id+"/close", nil)
	require.Equal(t, fiber.StatusOK, status)

	status, body = sarah.do(fiber.MethodGet, "/view", nil)
	require.Equal(t, fiber.StatusOK, status)
	admin, _ := data(body)["admin"].(map[string]any)
	tickets, _ := admin["tickets"].([]any)
	require.Len(t, tickets, 1)
	ticket, _ := tickets[0].(map[string]any)
	assert.Equal(t, id, ticket["id"])
	assert.Equal(t, "Closed", ticket["status"])
	assert.Equal(t, "VPN down", ticket["description"])
	stats, _ := admin["stats"].([]any)
	require.Len(t, stats, 3)
	activeQueue, _ := stats[0].(map[string]any)
	assert.Equal(t, "0", activeQueue["value"])
}

func TestChatFailureAndGuards(t *testing.T) {
	failing := completerFunc(func(context.Context, completion.Request) (string, error) {
		return "", errors.New("upstream 503")
	})
	b := &browser{t: t, app: newTestServer(t, persistence.NewMemory(), failing)}

	status, _ := b.do(fiber.MethodGet, "/chat", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	require.Equal(t, fiber.StatusOK, b.login("user", "user", "user123"))

	status, body := b.do(fiber.MethodGet, "/chat/escalation", nil)
	assert.Equal(t, fiber.StatusConflict, status, "greeting alone cannot be escalated")
	assert.Equal(t, "CONFLICT", errorOf(body)["code"])

	status, body = b.do(fiber.MethodPost, "/chat/messages", map[string]string{"text": "  "})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorOf(body)["code"])

	status, body = b.do(fiber.MethodPost, "/chat/messages", map[string]string{"text": "help"})
	require.Equal(t, fiber.StatusOK, status)
	msgs, _ := data(body)["messages"].([]any)
	require.Len(t, msgs, 3)
	last, _ := msgs[2].(map[string]any)
	assert.Equal(t, service.ServiceFailedText, last["text"])
	assert.Equal(t, false, data(body)["pending"])

	status, body = b.do(fiber.MethodPost, "/chat/mount", nil)
	require.Equal(t, fiber.StatusOK, status)
	msgs, _ = data(body)["messages"].([]any)
	assert.Len(t, msgs, 1)

	status, body = b.do(fiber.MethodGet, "/chat/manual", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "", data(body)["description"])
	assert.Equal(t, "IT", data(body)["category"])
	assert.Equal(t, "P3", data(body)["priority"])

	status, body = b.do(fiber.MethodPost, "/tickets", map[string]string{"description": "x", "priority": "P9"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	details, _ := errorOf(body)["details"].(map[string]any)
	assert.Contains(t, details, "priority")
}

func TestSessionSurvivesRestart(t *testing.T) {
	surface := persistence.NewMemory()
	first := &browser{t: t, app: newTestServer(t, surface, echoCompleter())}
	require.Equal(t, fiber.StatusOK, first.login("user", "user", "user123"))

	restarted := &browser{t: t, app: newTestServer(t, surface, echoCompleter()), cookie: first.cookie}
	status, body := restarted.do(fiber.MethodGet, "/view", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "employee_dashboard", data(body)["view"])

	status, body = restarted.do(fiber.MethodPost, "/auth/logout", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "landing", data(body)["view"])

	again := &browser{t: t, app: newTestServer(t, surface, echoCompleter()), cookie: first.cookie}
	_, body = again.do(fiber.MethodGet, "/view", nil)
	assert.Equal(t, "landing", data(body)["view"])
}

func TestLoginFromLandingRejected(t *testing.T) {
	b := &browser{t: t, app: newTestServer(t, persistence.NewMemory(), echoCompleter())}

	status, body := b.do(fiber.MethodPost, "/auth/login", map[string]string{
		"role": "user", "username": "user", "password": "user123",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorOf(body)["code"])

	_, body = b.do(fiber.MethodGet, "/view", nil)
	assert.Equal(t, "landing", data(body)["view"])
}
