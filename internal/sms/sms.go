// Package sms talks to the Skebby REST API: it logs in with account
// credentials, keeps the session pair in memory, sends messages and
// reads the remaining credits per message quality.
package sms

import (
	"context"
	"fmt"
)

// Client is the contract for the SMS provider used by the services.
type Client interface {
	// Send sends message to phone at the given quality. An empty quality
	// means the client's configured default. The provider response is
	// returned as-is.
	Send(ctx context.Context, phone, message string, quality Quality) (Payload, error)

	// Info returns the provider's account status payload.
	Info(ctx context.Context) (Payload, error)

	// Remaining returns the credits left for quality (empty = default).
	Remaining(ctx context.Context, quality Quality) (int, error)

	// AllRemainingCredits returns the credits left for every quality the
	// provider reports.
	AllRemainingCredits(ctx context.Context) (Credits, error)

	// ClearAuthCache drops the cached session so the next call logs in again.
	ClearAuthCache()

	// Health checks whether the provider accepts our credentials.
	Health(ctx context.Context) error
}

// Session is the (user_key, session_key) pair issued by the login endpoint.
type Session struct {
	UserKey    string
	SessionKey string
}

// Payload is a decoded provider JSON response.
type Payload map[string]any

// OrderID returns the provider's order_id, if the payload carries one.
func (p Payload) OrderID() string {
	v, ok := p["order_id"]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// RemainingCredits returns the remaining_credits field that the provider
// adds to a send response when returnRemaining is set.
func (p Payload) RemainingCredits() (int, bool) {
	return toInt(p["remaining_credits"])
}

// Credits maps a message quality to its remaining credit count.
type Credits map[Quality]int
