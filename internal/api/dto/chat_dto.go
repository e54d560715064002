package dto

import (
	"github.com/nexus-suite/helpdesk/internal/domain"
	"github.com/nexus-suite/helpdesk/internal/service"
)

// SendMessageRequest payload.
type SendMessageRequest struct {
	Text string `json:"text" validate:"max=4000"`
}

// ChatMessageResponse is one transcript turn.
type ChatMessageResponse struct {
	Role        domain.ChatRole `json:"role"`
	Text        string          `json:"text"`
	CanEscalate bool            `json:"canEscalate"`
}

// ChatResponse is the transcript and the send gate.
type ChatResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
	Pending  bool                  `json:"pending"`
}

// NewChatResponse snapshots chat.
func NewChatResponse(chat *service.ChatSession) ChatResponse {
	transcript := chat.Transcript()
	msgs := make([]ChatMessageResponse, 0, len(transcript))
	for i, m := range transcript {
		msgs = append(msgs, ChatMessageResponse{
			Role:        m.Role,
			Text:        m.Text,
			CanEscalate: chat.CanEscalate(i),
		})
	}
	return ChatResponse{Messages: msgs, Pending: chat.Pending()}
}
