package message

import "context"

// Repository defines the persistence operations for Message aggregates.
//
// It is implemented by infrastructure layers (e.g. GORM) while the domain
// and service layers depend only on this interface.
type Repository interface {
	// Save persists a new message.
	Save(ctx context.Context, m *Message) error

	// ClaimPending marks up to limit pending messages as SENDING and
	// returns them. A claimed message is never returned again.
	ClaimPending(ctx context.Context, limit int) ([]*Message, error)

	// GetSent returns a paginated list of successfully sent messages
	// along with the total number of sent records.
	GetSent(ctx context.Context, page, limit int) ([]*Message, int64, error)

	// UpdateStatus records the delivery outcome of an existing message.
	UpdateStatus(ctx context.Context, m *Message) error
}
