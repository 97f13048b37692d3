package messagegorm

import (
	"context"
	"time"

	"github.com/oggyb/skebby-gateway/internal/db"
	"github.com/oggyb/skebby-gateway/internal/domain/message"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is a GORM-backed implementation of the message.Repository interface.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a message repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// ClaimPending moves up to limit pending messages to SENDING and returns
// them, oldest first. Rows are selected with FOR UPDATE SKIP LOCKED inside
// one transaction, so two dispatchers never claim the same message and
// no SMS is paid for twice.
func (r *Repository) ClaimPending(ctx context.Context, limit int) ([]*message.Message, error) {
	var models []MessageModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("status = ?", message.StatusPending).
			Order("created_at ASC").
			Limit(limit).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Find(&models).Error
		if err != nil || len(models) == 0 {
			return err
		}

		ids := make([]any, len(models))
		for i := range models {
			ids[i] = models[i].ID
			models[i].Status = string(message.StatusSending)
		}

		return tx.Model(&MessageModel{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":     string(message.StatusSending),
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return toDomainMany(models), nil
}

// GetSent returns a paginated list of successfully sent messages and the total count.
func (r *Repository) GetSent(ctx context.Context, page, limit int) ([]*message.Message, int64, error) {
	var models []MessageModel
	var total int64

	query := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("status = ?", message.StatusSuccess)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit

	err := query.
		Order("sent_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, err
	}

	return toDomainMany(models), total, nil
}

// UpdateStatus persists the delivery outcome of a message.
func (r *Repository) UpdateStatus(ctx context.Context, m *message.Message) error {
	updates := map[string]interface{}{
		"status":       string(m.Status),
		"message_id":   m.MessageID,
		"raw_response": m.RawResponse,
		"sent_at":      m.SentAt,
	}

	return r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("id = ?", m.ID).
		Updates(updates).Error
}

// Save inserts a new message record into the database.
func (r *Repository) Save(ctx context.Context, msg *message.Message) error {
	dbModel := fromDomain(msg)
	return r.db.WithContext(ctx).Create(dbModel).Error
}

// compile-time interface check
var _ message.Repository = (*Repository)(nil)
