package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/oggyb/skebby-gateway/internal/cache"
	"github.com/oggyb/skebby-gateway/internal/sms"
	"github.com/sirupsen/logrus"
)

// AccountService exposes the Skebby account state to the HTTP layer.
type AccountService interface {
	Info(ctx context.Context) (sms.Payload, error)
	Remaining(ctx context.Context, quality sms.Quality) (int, error)
	Credits(ctx context.Context) (sms.Credits, error)
	// SentCounts returns the per-quality counters kept by the dispatcher.
	// Messages sent with the account default are under
	// cache.DefaultQualityKey. Unreadable counters are logged and left out.
	SentCounts(ctx context.Context) map[string]int64
	ResetSession()
}

type accountService struct {
	smsClient sms.Client
	cache     cache.Cache
	log       *logrus.Entry
}

// NewAccountService wraps the SMS client for account queries. Provider
// calls are never cached. cache may be nil.
func NewAccountService(smsClient sms.Client, c cache.Cache) AccountService {
	return &accountService{
		smsClient: smsClient,
		cache:     c,
		log:       logrus.WithField("component", "account-service"),
	}
}

func (s *accountService) Info(ctx context.Context) (sms.Payload, error) {
	return s.smsClient.Info(ctx)
}

func (s *accountService) Remaining(ctx context.Context, quality sms.Quality) (int, error) {
	return s.smsClient.Remaining(ctx, quality)
}

func (s *accountService) Credits(ctx context.Context) (sms.Credits, error) {
	return s.smsClient.AllRemainingCredits(ctx)
}

func (s *accountService) SentCounts(ctx context.Context) map[string]int64 {
	if s.cache == nil {
		return nil
	}

	keys := make([]string, 0, len(sms.Qualities)+1)
	for _, q := range sms.Qualities {
		keys = append(keys, string(q))
	}
	keys = append(keys, cache.DefaultQualityKey)

	counts := make(map[string]int64, len(keys))
	for _, k := range keys {
		v, err := s.cache.Get(ctx, cache.SentCount.Key(k))
		if errors.Is(err, cache.ErrNotFound) {
			continue
		}
		if err != nil {
			s.log.WithError(err).WithField("quality", k).Warn("failed to read sent counter")
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.log.WithError(err).WithField("quality", k).Warn("invalid sent counter")
			continue
		}
		counts[k] = n
	}
	return counts
}

// ResetSession forces the next provider call to log in again.
func (s *accountService) ResetSession() {
	s.smsClient.ClearAuthCache()
	s.log.Info("cached Skebby session cleared")
}
