package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nexus-suite/helpdesk/internal/domain"
	"github.com/nexus-suite/helpdesk/internal/persistence"
)

// TicketsKey is the slot holding the serialized ticket sequence.
const TicketsKey = "nexus_tickets_v3"

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	Save(ctx context.Context, ticket domain.Ticket) error
	SetStatus(ctx context.Context, id string, status domain.TicketStatus) error
}

type ticketRepository struct {
	surface persistence.Surface
	key     string
}

// NewTicketRepository stores tickets in the TicketsKey slot of surface.
func NewTicketRepository(surface persistence.Surface) TicketRepository {
	return &ticketRepository{surface: surface, key: TicketsKey}
}

// List returns all tickets, most recently created first. An absent slot
// yields an empty list; a malformed one is an error.
func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	raw, found, err := r.surface.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("read tickets: %w", err)
	}
	if !found || raw == "" {
		return []domain.Ticket{}, nil
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// Save prepends ticket and writes the whole sequence back.
func (r *ticketRepository) Save(ctx context.Context, ticket domain.Ticket) error {
	tickets, err := r.List(ctx)
	if err != nil {
		return err
	}
	if ticket.Replies == nil {
		ticket.Replies = []string{}
	}
	tickets = append([]domain.Ticket{ticket}, tickets...)
	return r.write(ctx, tickets)
}

// SetStatus replaces the status of the ticket with the given id. Unknown
// ids leave the sequence untouched.
func (r *ticketRepository) SetStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	tickets, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			tickets[i].Status = status
		}
	}
	return r.write(ctx, tickets)
}

func (r *ticketRepository) write(ctx context.Context, tickets []domain.Ticket) error {
	payload, err := json.Marshal(tickets)
	if err != nil {
		return fmt.Errorf("encode tickets: %w", err)
	}
	if err := r.surface.Set(ctx, r.key, string(payload)); err != nil {
		return fmt.Errorf("write tickets: %w", err)
	}
	return nil
}
