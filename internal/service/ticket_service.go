package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nexus-suite/helpdesk/internal/domain"
	"github.com/nexus-suite/helpdesk/internal/events"
	"github.com/nexus-suite/helpdesk/internal/repository"
)

var (
	// ErrDescriptionRequired rejects a ticket without a description.
	ErrDescriptionRequired = errors.New("ticket: description is required")
	// ErrInvalidCategory rejects a category outside IT, HR and Admin.
	ErrInvalidCategory = errors.New("ticket: invalid category")
	// ErrInvalidPriority rejects a priority outside P1..P4.
	ErrInvalidPriority = errors.New("ticket: invalid priority")
	// ErrTicketReopen rejects moving a closed ticket back to open.
	ErrTicketReopen = errors.New("ticket: closed tickets cannot be reopened")
	// ErrTicketNotFound is returned when no stored ticket has the id.
	ErrTicketNotFound = errors.New("ticket: not found")
)

const ticketIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
	IDSource   func() string
}

// TicketCreateInput describes a submission. Zero category and priority
// fall back to IT and P3.
type TicketCreateInput struct {
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	Description string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
		newID:      deps.IDSource,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = GenerateTicketID
	}
	return s
}

// GenerateTicketID returns "INC-" followed by six base-36 characters.
// Collisions are not checked.
func GenerateTicketID() string {
	var b strings.Builder
	b.WriteString("INC-")
	for i := 0; i < 6; i++ {
		b.WriteByte(ticketIDAlphabet[rand.IntN(len(ticketIDAlphabet))])
	}
	return b.String()
}

// CreateTicket stores a new open ticket for the session's user at the
// front of the queue.
func (s *TicketService) CreateTicket(ctx context.Context, session domain.Session, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	category := input.Category
	if category == "" {
		category = domain.DefaultTicketCategory
	}
	switch category {
	case domain.TicketCategoryIT, domain.TicketCategoryHR, domain.TicketCategoryAdmin:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.DefaultTicketPriority
	}
	switch priority {
	case domain.TicketPriorityP1, domain.TicketPriorityP2, domain.TicketPriorityP3, domain.TicketPriorityP4:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	ticket := domain.Ticket{
		ID:          s.newID(),
		UserName:    session.Name,
		Category:    category,
		Description: input.Description,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   s.now().Format(domain.CreatedAtLayout),
		Replies:     []string{},
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, actorOf(session),
		events.TicketCreatedPayload{
			Category:    ticket.Category,
			Priority:    ticket.Priority,
			Description: ticket.Description,
		}))
	return &ticket, nil
}

// ListTickets returns the queue, most recent first.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// GetTicket returns one ticket for the admin incident review.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
}

// SetStatus moves a ticket to status. Closed is terminal; an unknown id is
// a no-op.
func (s *TicketService) SetStatus(ctx context.Context, actor domain.Session, id string, status domain.TicketStatus) error {
	if !status.Valid() {
		return fmt.Errorf("ticket: invalid status %q", status)
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return err
	}
	var current *domain.Ticket
	for i := range tickets {
		if tickets[i].ID == id {
			current = &tickets[i]
			break
		}
	}
	if current != nil && current.Status == domain.TicketStatusClosed && status == domain.TicketStatusOpen {
		return ErrTicketReopen
	}

	if err := s.tickets.SetStatus(ctx, id, status); err != nil {
		return err
	}

	if current != nil && current.Status != status {
		s.publishEvent(ctx, events.NewEvent(events.EventTicketStatusChanged, id, actorOf(actor),
			events.TicketStatusChangedPayload{OldStatus: current.Status, NewStatus: status}))
	}
	return nil
}

// CloseTicket marks a ticket resolved. Closing twice is harmless.
func (s *TicketService) CloseTicket(ctx context.Context, actor domain.Session, id string) error {
	return s.SetStatus(ctx, actor, id, domain.TicketStatusClosed)
}

// NotifyEscalation records that a chat could not resolve an issue.
func (s *TicketService) NotifyEscalation(ctx context.Context, session domain.Session, draft EscalationDraft) {
	s.publishEvent(ctx, events.NewEvent(events.EventChatEscalated, "", actorOf(session),
		events.ChatEscalatedPayload{LastUserText: strings.TrimPrefix(draft.Description, EscalationPrefix)}))
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func actorOf(session domain.Session) events.Actor {
	return events.Actor{Role: session.Role, Name: session.Name}
}
