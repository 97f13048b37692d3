package cache

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = errors.New("cache: key not found")

type Prefix string

const (
	// SentMessages maps a Skebby order_id to the RFC3339 time it was sent.
	SentMessages Prefix = "sent_messages"
	// SentCount counts successful sends per message quality.
	SentCount Prefix = "sent_count"
)

// DefaultQualityKey is the SentCount id for messages sent with the
// account default quality.
const DefaultQualityKey = "default"

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}
