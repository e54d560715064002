package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nexus-suite/helpdesk/internal/completion"
	"github.com/nexus-suite/helpdesk/internal/domain"
)

var (
	// ErrEmptyMessage rejects a blank send; no turn is appended.
	ErrEmptyMessage = errors.New("chat: message is empty")
	// ErrSendPending rejects a send while the previous reply is outstanding.
	ErrSendPending = errors.New("chat: a reply is still pending")
	// ErrNothingToEscalate rejects escalation before any assistant reply
	// other than the greeting.
	ErrNothingToEscalate = errors.New("chat: no reply to escalate")
)

// Fixed assistant texts.
const (
	GreetingTemplate  = "Systems Online. Welcome, Associate %s. My diagnostic engine is ready for your IT, HR, or Administrative queries."
	EmptyReplyText    = "Diagnostic failed. Please escalate."
	ServiceFailedText = "Service Tunnel Error. Please log a manual ticket."
	EscalationPrefix  = "Issue Not Resolved via Chat: "
)

// SystemInstruction is sent with every completion request.
const SystemInstruction = `You are Nexus AI Assistant.
Provide technical, professional, and clear advice.
Escalate to "Raising a Support Incident" if the issue requires manual intervention.
Use bullet points for steps.`

// Completer issues one text completion.
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (string, error)
}

// ChatOutcome classifies how a send finished, for metrics.
type ChatOutcome string

const (
	ChatOutcomeOK       ChatOutcome = "ok"
	ChatOutcomeEmpty    ChatOutcome = "empty"
	ChatOutcomeError    ChatOutcome = "error"
	ChatOutcomeRejected ChatOutcome = "rejected"
)

// ChatObserver is notified of every send outcome.
type ChatObserver interface {
	RecordChatOutcome(outcome string)
}

// EscalationDraft pre-fills the ticket submission form.
type EscalationDraft struct {
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// ChatSession is the in-memory transcript behind the chat widget. At most
// one send is in flight; overlapping sends are rejected, not queued.
type ChatSession struct {
	completer Completer
	logger    *zap.Logger
	observer  ChatObserver

	inFlight atomic.Bool

	mu       sync.RWMutex
	messages []domain.ChatMessage
}

// NewChatSession seeds the transcript with the greeting for session.
func NewChatSession(session domain.Session, completer Completer, logger *zap.Logger, observer ChatObserver) *ChatSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatSession{
		completer: completer,
		logger:    logger,
		observer:  observer,
		messages: []domain.ChatMessage{{
			Role: domain.ChatRoleAI,
			Text: fmt.Sprintf(GreetingTemplate, session.FirstName()),
		}},
	}
}

// Send appends text as a user turn and one assistant turn once the
// completion service answers. Failures become ServiceFailedText; the
// underlying error is not returned.
func (s *ChatSession) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		s.record(ChatOutcomeRejected)
		return ErrEmptyMessage
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		s.record(ChatOutcomeRejected)
		return ErrSendPending
	}
	defer s.inFlight.Store(false)

	s.append(domain.ChatMessage{Role: domain.ChatRoleUser, Text: text})

	reply, err := s.completer.Complete(ctx, completion.Request{
		Prompt:            text,
		SystemInstruction: SystemInstruction,
	})
	switch {
	case err != nil:
		s.logger.Debug("completion failed", zap.Error(err))
		s.append(domain.ChatMessage{Role: domain.ChatRoleAI, Text: ServiceFailedText})
		s.record(ChatOutcomeError)
	case reply == "":
		s.append(domain.ChatMessage{Role: domain.ChatRoleAI, Text: EmptyReplyText})
		s.record(ChatOutcomeEmpty)
	default:
		s.append(domain.ChatMessage{Role: domain.ChatRoleAI, Text: reply})
		s.record(ChatOutcomeOK)
	}
	return nil
}

// Pending reports whether a send is outstanding.
func (s *ChatSession) Pending() bool {
	return s.inFlight.Load()
}

// Transcript returns a copy of the conversation so far.
func (s *ChatSession) Transcript() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// CanEscalate reports whether the turn at index offers escalation: any
// assistant reply except the seeded greeting.
func (s *ChatSession) CanEscalate(index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index <= 0 || index >= len(s.messages) {
		return false
	}
	return s.messages[index].Role == domain.ChatRoleAI
}

// Escalate drafts a ticket from the most recent user turn. It is only
// offered once an assistant reply follows the greeting.
func (s *ChatSession) Escalate() (EscalationDraft, error) {
	if !s.hasReply() {
		return EscalationDraft{}, ErrNothingToEscalate
	}
	draft := ManualDraft()
	draft.Description = EscalationPrefix + s.lastUserText()
	return draft, nil
}

// ManualDraft is the blank form behind "Log Incident Manually".
func ManualDraft() EscalationDraft {
	return EscalationDraft{
		Category: domain.DefaultTicketCategory,
		Priority: domain.DefaultTicketPriority,
	}
}

func (s *ChatSession) hasReply() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := 1; i < len(s.messages); i++ {
		if s.messages[i].Role == domain.ChatRoleAI {
			return true
		}
	}
	return false
}

// lastUserText returns the most recent user turn, or "" if there is none.
func (s *ChatSession) lastUserText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == domain.ChatRoleUser {
			return s.messages[i].Text
		}
	}
	return ""
}

func (s *ChatSession) append(msg domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *ChatSession) record(outcome ChatOutcome) {
	if s.observer != nil {
		s.observer.RecordChatOutcome(string(outcome))
	}
}
