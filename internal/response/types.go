package response

import (
	"time"

	domain "github.com/oggyb/skebby-gateway/internal/domain/message"
	"github.com/oggyb/skebby-gateway/internal/sms"
)

type WelcomePayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type WelcomeResponse struct {
	Success   bool           `json:"success"`
	Data      WelcomePayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type HealthResponse struct {
	Success   bool          `json:"success"`
	Data      HealthPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

type SchedulerControlPayload struct {
	Message string `json:"message"`
}

type SchedulerControlResponse struct {
	Success   bool                    `json:"success"`
	Data      SchedulerControlPayload `json:"data"`
	Timestamp string                  `json:"timestamp"`
}

// MessageDTO is a public-facing representation of a message
// used in API responses. It decouples the wire format from
// the domain entity and plays nicely with Swagger.
type MessageDTO struct {
	ID        string     `json:"id"`
	To        string     `json:"to"`
	Content   string     `json:"content"`
	Quality   string     `json:"quality,omitempty"`
	Status    string     `json:"status"`
	MessageID string     `json:"messageId,omitempty"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type EnqueueMessageResponse struct {
	Success   bool       `json:"success"`
	Data      MessageDTO `json:"data"`
	Timestamp string     `json:"timestamp"`
}

type SentLookupPayload struct {
	OrderID string    `json:"orderId"`
	SentAt  time.Time `json:"sentAt"`
}

type SentLookupResponse struct {
	Success   bool              `json:"success"`
	Data      SentLookupPayload `json:"data"`
	Timestamp string            `json:"timestamp"`
}

type SentMessagesPayload struct {
	Items []MessageDTO `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type SentMessagesResponse struct {
	Success   bool                `json:"success"`
	Data      SentMessagesPayload `json:"data"`
	Timestamp string              `json:"timestamp"`
}

// CreditsPayload reports, per quality (GP, TI, SI, EE, AD), the credits
// Skebby has left and how many messages this gateway sent. Sent also has a
// "default" entry for messages sent with the account default quality.
type CreditsPayload struct {
	Remaining map[string]int   `json:"remaining"`
	Sent      map[string]int64 `json:"sent,omitempty"`
}

type CreditsResponse struct {
	Success   bool           `json:"success"`
	Data      CreditsPayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type RemainingPayload struct {
	Quality   string `json:"quality"`
	Remaining int    `json:"remaining"`
}

type RemainingResponse struct {
	Success   bool             `json:"success"`
	Data      RemainingPayload `json:"data"`
	Timestamp string           `json:"timestamp"`
}

// AccountResponse wraps the provider's status payload unchanged.
type AccountResponse struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// FromDomainMessage converts a domain message into its DTO.
func FromDomainMessage(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID.String(),
		To:        m.To,
		Content:   m.Content,
		Quality:   string(m.Quality),
		Status:    string(m.Status),
		MessageID: m.MessageID,
		SentAt:    m.SentAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainMessages converts domain messages into DTOs
// for use in HTTP responses.
func FromDomainMessages(msgs []*domain.Message) []MessageDTO {
	out := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = FromDomainMessage(m)
	}
	return out
}

// FromCredits converts client credits and sent counters into the wire payload.
func FromCredits(c sms.Credits, sent map[string]int64) CreditsPayload {
	remaining := make(map[string]int, len(c))
	for q, n := range c {
		remaining[string(q)] = n
	}
	return CreditsPayload{Remaining: remaining, Sent: sent}
}
