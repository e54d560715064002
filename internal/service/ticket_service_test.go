package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-suite/helpdesk/internal/domain"
	"github.com/nexus-suite/helpdesk/internal/events"
	"github.com/nexus-suite/helpdesk/internal/persistence"
	"github.com/nexus-suite/helpdesk/internal/repository"
)

var sarah = domain.Session{Role: domain.RoleAdmin, Name: "Sarah Miller"}

func newTicketService(t *testing.T, dispatcher events.Dispatcher) *TicketService {
	t.Helper()
	ids := []string{"INC-000001", "INC-000002", "INC-000003"}
	return NewTicketService(TicketDependencies{
		TicketRepo: repository.NewTicketRepository(persistence.NewMemory()),
		Dispatcher: dispatcher,
		Clock:      func() time.Time { return time.Date(2026, 10, 18, 14, 5, 9, 0, time.UTC) },
		IDSource: func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	})
}

func TestGenerateTicketID(t *testing.T) {
	pattern := regexp.MustCompile(`^INC-[0-9A-Z]{6}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, GenerateTicketID())
	}
}

func TestVPNTicketLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTicketService(t, nil)

	created, err := svc.CreateTicket(ctx, alex, TicketCreateInput{
		Category:    domain.TicketCategoryIT,
		Priority:    domain.TicketPriorityP1,
		Description: "VPN down",
	})
	require.NoError(t, err)

	tickets, err := svc.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	got := tickets[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)
	assert.Equal(t, domain.TicketCategoryIT, got.Category)
	assert.Equal(t, domain.TicketPriorityP1, got.Priority)
	assert.Equal(t, "VPN down", got.Description)
	assert.Equal(t, "Alex Johnson", got.UserName)
	assert.Equal(t, "10/18/2026, 2:05:09 PM", got.CreatedAt)
	assert.Empty(t, got.Replies)

	require.NoError(t, svc.CloseTicket(ctx, sarah, got.ID))

	tickets, err = svc.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.TicketStatusClosed, tickets[0].Status)
	assert.Equal(t, got.ID, tickets[0].ID)
	assert.Equal(t, "VPN down", tickets[0].Description)
}

func TestCreateTicketDefaultsAndOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTicketService(t, nil)

	for _, desc := range []string{"one", "two", "three"} {
		_, err := svc.CreateTicket(ctx, alex, TicketCreateInput{Description: desc})
		require.NoError(t, err)
	}

	tickets, err := svc.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, []string{"three", "two", "one"}, []string{tickets[0].Description, tickets[1].Description, tickets[2].Description})
	assert.Equal(t, domain.TicketCategoryIT, tickets[0].Category)
	assert.Equal(t, domain.TicketPriorityP3, tickets[0].Priority)
}

func TestCreateTicketValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTicketService(t, nil)

	_, err := svc.CreateTicket(ctx, alex, TicketCreateInput{Description: "  "})
	assert.ErrorIs(t, err, ErrDescriptionRequired)
	_, err = svc.CreateTicket(ctx, alex, TicketCreateInput{Description: "x", Category: "Legal"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = svc.CreateTicket(ctx, alex, TicketCreateInput{Description: "x", Priority: "P9"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	tickets, err := svc.ListTickets(ctx)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestSetStatusRules(t *testing.T) {
	ctx := context.Background()
	svc := newTicketService(t, nil)
	first, err := svc.CreateTicket(ctx, alex, TicketCreateInput{Description: "one"})
	require.NoError(t, err)
	_, err = svc.CreateTicket(ctx, alex, TicketCreateInput{Description: "two"})
	require.NoError(t, err)

	require.NoError(t, svc.CloseTicket(ctx, sarah, first.ID))
	require.NoError(t, svc.CloseTicket(ctx, sarah, first.ID))
	assert.ErrorIs(t, svc.SetStatus(ctx, sarah, first.ID, domain.TicketStatusOpen), ErrTicketReopen)
	assert.Error(t, svc.SetStatus(ctx, sarah, first.ID, "Pending"))
	require.NoError(t, svc.CloseTicket(ctx, sarah, "INC-UNKNWN"))

	tickets, err := svc.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, domain.TicketStatusOpen, tickets[0].Status)
	assert.Equal(t, domain.TicketStatusClosed, tickets[1].Status)
}

func TestTicketEvents(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	var got []events.EventType
	for _, et := range []events.EventType{events.EventTicketCreated, events.EventTicketStatusChanged, events.EventChatEscalated} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			got = append(got, e.Type)
			return nil
		})
	}
	svc := newTicketService(t, dispatcher)

	ticket, err := svc.CreateTicket(ctx, alex, TicketCreateInput{Description: "VPN down"})
	require.NoError(t, err)
	require.NoError(t, svc.CloseTicket(ctx, sarah, ticket.ID))
	require.NoError(t, svc.CloseTicket(ctx, sarah, ticket.ID))
	svc.NotifyEscalation(ctx, alex, EscalationDraft{Description: EscalationPrefix + "VPN down"})

	assert.Equal(t, []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventChatEscalated,
	}, got)
}

func TestGetTicket(t *testing.T) {
	ctx := context.Background()
	svc := newTicketService(t, nil)
	created, err := svc.CreateTicket(ctx, alex, TicketCreateInput{Priority: domain.TicketPriorityP1, Description: "VPN down"})
	require.NoError(t, err)

	got, err := svc.GetTicket(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	_, err = svc.GetTicket(ctx, "INC-ZZZZZZ")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
