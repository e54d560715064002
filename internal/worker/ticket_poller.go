package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nexus-suite/helpdesk/internal/domain"
)

// TicketLister reads the whole ticket queue.
type TicketLister interface {
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
}

// TicketPoller re-reads the ticket queue on a fixed interval for the admin
// dashboard. Writes become visible at the next tick at the latest.
type TicketPoller struct {
	tickets  TicketLister
	interval time.Duration
	logger   *zap.Logger
	cron     *cron.Cron

	mu       sync.RWMutex
	snapshot []domain.Ticket
}

// NewTicketPoller creates a stopped poller.
func NewTicketPoller(tickets TicketLister, interval time.Duration, logger *zap.Logger) *TicketPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketPoller{
		tickets:  tickets,
		interval: interval,
		logger:   logger,
		cron:     cron.New(),
		snapshot: []domain.Ticket{},
	}
}

// Start loads the queue once and schedules the periodic refresh.
func (p *TicketPoller) Start(ctx context.Context) error {
	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("initial ticket poll failed", zap.Error(err))
	}
	spec := fmt.Sprintf("@every %s", p.interval)
	if _, err := p.cron.AddFunc(spec, func() {
		if err := p.Refresh(context.Background()); err != nil {
			p.logger.Warn("ticket poll failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule ticket poll: %w", err)
	}
	p.cron.Start()
	p.logger.Info("ticket poller started", zap.Duration("interval", p.interval))
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (p *TicketPoller) Stop() {
	<-p.cron.Stop().Done()
}

// Refresh replaces the snapshot with the current queue. On error the
// previous snapshot is kept.
func (p *TicketPoller) Refresh(ctx context.Context) error {
	tickets, err := p.tickets.ListTickets(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.snapshot = tickets
	p.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the tickets read by the last successful poll.
func (p *TicketPoller) Snapshot() []domain.Ticket {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Ticket, len(p.snapshot))
	copy(out, p.snapshot)
	return out
}
