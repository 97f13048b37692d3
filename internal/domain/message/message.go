// Package message holds the domain model and invariants for outgoing SMS.
package message

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/oggyb/skebby-gateway/internal/sms"
)

const (
	// MaxContentLength is the maximum allowed length for message content,
	// in characters. It matches what the provider accepts for a
	// concatenated message.
	MaxContentLength = sms.MaxMessageLength
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSending Status = "SENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

var (
	// ErrEmptyRecipient is returned when no recipient phone number is provided.
	ErrEmptyRecipient = errors.New("recipient phone number is required")
	// ErrEmptyContent is returned when the message body is empty.
	ErrEmptyContent = errors.New("message content is required")
	// ErrContentTooLong is returned when the message body exceeds MaxContentLength.
	ErrContentTooLong = errors.New("message content exceeds maximum length")
	// ErrInvalidQuality is returned when the quality is not a Skebby message type.
	ErrInvalidQuality = errors.New("message quality must be one of GP, TI, SI, EE, AD")
)

// Message is the core domain entity representing an outgoing SMS message.
type Message struct {
	ID      uuid.UUID
	To      string
	Content string
	// Quality is empty when the account default should be used.
	Quality     sms.Quality
	Status      Status
	MessageID   string
	RawResponse string
	SentAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewMessage constructs a new pending Message and enforces basic domain rules.
func NewMessage(to, content string, quality sms.Quality) (*Message, error) {
	to = strings.TrimSpace(to)
	content = strings.TrimSpace(content)

	if to == "" {
		return nil, ErrEmptyRecipient
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}
	if quality != "" && !quality.Valid() {
		return nil, ErrInvalidQuality
	}

	return &Message{
		ID:        uuid.New(),
		To:        to,
		Content:   content,
		Quality:   quality,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// MarkSent marks the message as successfully sent and records the
// provider's order id and raw response.
func (m *Message) MarkSent(orderID string, raw string) {
	now := time.Now()
	m.SentAt = &now
	m.Status = StatusSuccess
	m.MessageID = orderID
	m.RawResponse = raw
}

// MarkFailed marks the message as failed and stores the raw provider response.
func (m *Message) MarkFailed(raw string) {
	m.Status = StatusFailed
	m.RawResponse = raw
}
