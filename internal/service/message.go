package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/oggyb/skebby-gateway/internal/cache"
	domain "github.com/oggyb/skebby-gateway/internal/domain/message"
	"github.com/oggyb/skebby-gateway/internal/sms"
	"github.com/sirupsen/logrus"
)

type MessageService interface {
	Enqueue(ctx context.Context, to, content string, quality sms.Quality) (*domain.Message, error)
	GetSent(ctx context.Context, page, limit int) ([]*domain.Message, int64, error)
	ProcessBatch(ctx context.Context) error
	// SentAt reports when the message with the given Skebby order id was
	// sent, from the cache. It returns cache.ErrNotFound once the entry has
	// expired or when no cache is configured.
	SentAt(ctx context.Context, orderID string) (time.Time, error)
}

// MessageOptions configures batch dispatching. Zero values fall back to
// defaults.
type MessageOptions struct {
	BatchSize         int
	MaxWorkers        int
	PerMessageTimeout time.Duration
	// LowCreditThreshold logs a warning once a send response reports fewer
	// remaining credits than this. Zero disables the check.
	LowCreditThreshold int
}

type messageService struct {
	repo      domain.Repository
	smsClient sms.Client
	cache     cache.Cache
	log       *logrus.Entry

	batchSize          int
	maxWorkers         int
	perMessageTimeout  time.Duration
	lowCreditThreshold int
}

// NewMessageService creates a message service with the given dependencies.
// cache may be nil.
func NewMessageService(
	repo domain.Repository,
	smsClient sms.Client,
	cache cache.Cache,
	opts MessageOptions,
) MessageService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 4
	}
	if opts.PerMessageTimeout <= 0 {
		// Login and send may both run inside one message's budget.
		opts.PerMessageTimeout = 2 * sms.DefaultTimeout
	}

	return &messageService{
		repo:               repo,
		smsClient:          smsClient,
		cache:              cache,
		log:                logrus.WithField("component", "message-service"),
		batchSize:          opts.BatchSize,
		maxWorkers:         opts.MaxWorkers,
		perMessageTimeout:  opts.PerMessageTimeout,
		lowCreditThreshold: opts.LowCreditThreshold,
	}
}

// Enqueue validates and stores a new pending message. It is sent by the
// next batch.
func (s *messageService) Enqueue(ctx context.Context, to, content string, quality sms.Quality) (*domain.Message, error) {
	msg, err := domain.NewMessage(to, content, quality)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"id":      msg.ID.String(),
		"quality": msg.Quality,
	}).Info("message enqueued")

	return msg, nil
}

func (s *messageService) GetSent(ctx context.Context, page, limit int) ([]*domain.Message, int64, error) {
	return s.repo.GetSent(ctx, page, limit)
}

func (s *messageService) SentAt(ctx context.Context, orderID string) (time.Time, error) {
	if s.cache == nil {
		return time.Time{}, cache.ErrNotFound
	}

	v, err := s.cache.Get(ctx, cache.SentMessages.Key(orderID))
	if err != nil {
		return time.Time{}, err
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cached send time for %s: %w", orderID, err)
	}
	return t, nil
}

// ProcessBatch claims a batch of pending messages and sends them through
// Skebby with a small worker pool.
func (s *messageService) ProcessBatch(ctx context.Context) error {
	messages, err := s.repo.ClaimPending(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to claim pending messages: %w", err)
	}

	if len(messages) == 0 {
		s.log.Debug("no pending messages")
		return nil
	}

	workerCount := len(messages)
	if workerCount > s.maxWorkers {
		workerCount = s.maxWorkers
	}

	s.log.WithFields(logrus.Fields{
		"messages": len(messages),
		"workers":  workerCount,
	}).Info("processing batch")

	var wg sync.WaitGroup

	// Each worker takes a stride of the batch: worker w handles indices
	// w, w+workerCount, w+2*workerCount, ...
	for w := 0; w < workerCount; w++ {
		wg.Add(1)

		go func(workerID, start int) {
			defer wg.Done()
			log := s.log.WithField("worker", workerID)

			for i := start; i < len(messages); i += workerCount {
				msg := messages[i]

				if ctx.Err() != nil {
					// Claimed but not attempted; give it back to the queue.
					s.release(msg, log)
					continue
				}

				msgCtx, cancel := context.WithTimeout(ctx, s.perMessageTimeout)
				if err := s.processMessage(msgCtx, msg); err != nil {
					log.WithError(err).WithField("id", msg.ID.String()).Warn("send failed")
				}
				cancel()
			}
		}(w+1, w)
	}

	wg.Wait()

	s.log.Info("batch completed")
	return nil
}

// processMessage sends one claimed message and records the outcome.
//
// When Skebby rejects a call with 401 the cached session has expired. The
// cache is cleared so the next batch logs in again; the message itself is
// marked FAILED, there is no inline retry.
func (s *messageService) processMessage(ctx context.Context, msg *domain.Message) error {
	id := msg.ID.String()

	payload, err := s.smsClient.Send(ctx, msg.To, msg.Content, msg.Quality)
	if err != nil {
		if errors.Is(err, sms.ErrAPIRequest) && sms.StatusCode(err) == http.StatusUnauthorized {
			s.log.Warn("Skebby session rejected, clearing cached session")
			s.smsClient.ClearAuthCache()
		}

		msg.MarkFailed(failureDetail(err))
		if uErr := s.repo.UpdateStatus(context.WithoutCancel(ctx), msg); uErr != nil {
			s.log.WithError(uErr).WithField("id", id).Error("failed to persist FAILED status")
		}

		return fmt.Errorf("send message %s: %w", id, err)
	}

	msg.MarkSent(payload.OrderID(), s.rawPayload(payload, id))
	if err := s.repo.UpdateStatus(context.WithoutCancel(ctx), msg); err != nil {
		return fmt.Errorf("update status for %s: %w", id, err)
	}

	s.checkCredits(payload, msg.Quality)
	s.remember(ctx, msg)

	return nil
}

// release puts a claimed but unsent message back to PENDING.
func (s *messageService) release(msg *domain.Message, log *logrus.Entry) {
	msg.Status = domain.StatusPending
	if err := s.repo.UpdateStatus(context.Background(), msg); err != nil {
		log.WithError(err).WithField("id", msg.ID.String()).Error("failed to release message")
	}
}

func (s *messageService) checkCredits(payload sms.Payload, quality sms.Quality) {
	if s.lowCreditThreshold <= 0 {
		return
	}
	remaining, ok := payload.RemainingCredits()
	if ok && remaining < s.lowCreditThreshold {
		s.log.WithFields(logrus.Fields{
			"quality":   quality,
			"remaining": remaining,
			"threshold": s.lowCreditThreshold,
		}).Warn("Skebby credits running low")
	}
}

// remember records the send in the cache. Failures are only logged.
func (s *messageService) remember(ctx context.Context, msg *domain.Message) {
	if s.cache == nil {
		return
	}

	if msg.MessageID != "" {
		sentAt := time.Now().Format(time.RFC3339)
		if msg.SentAt != nil {
			sentAt = msg.SentAt.Format(time.RFC3339)
		}
		key := cache.SentMessages.Key(msg.MessageID)
		if err := s.cache.Set(ctx, key, sentAt, 24*time.Hour); err != nil {
			s.log.WithError(err).WithField("order_id", msg.MessageID).Warn("failed to cache sent message")
		}
	}

	quality := string(msg.Quality)
	if quality == "" {
		quality = cache.DefaultQualityKey
	}
	if _, err := s.cache.Incr(ctx, cache.SentCount.Key(quality)); err != nil {
		s.log.WithError(err).Warn("failed to increment sent counter")
	}
}

// failureDetail is what gets stored as the raw response of a failed message.
func failureDetail(err error) string {
	var smsErr *sms.Error
	if errors.As(err, &smsErr) && smsErr.Body != "" {
		return smsErr.Body
	}
	return err.Error()
}

// rawPayload encodes the provider response for storage. An unencodable
// payload is logged and stored as "".
func (s *messageService) rawPayload(p sms.Payload, id string) string {
	raw, err := encodePayload(p)
	if err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to encode provider response")
		return ""
	}
	return raw
}

func encodePayload(p sms.Payload) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
