package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oggyb/skebby-gateway/internal/config"
	"github.com/oggyb/skebby-gateway/internal/db/gormdb"
	domain "github.com/oggyb/skebby-gateway/internal/domain/message"
	mesgRepo "github.com/oggyb/skebby-gateway/internal/repository/gorm/message"
	"github.com/oggyb/skebby-gateway/internal/sms"
	"github.com/sirupsen/logrus"
)

// seedCount is how many PENDING messages a run inserts.
const seedCount = 50

func main() {
	ctx := context.Background()

	cfg := config.New()
	logrus.SetLevel(cfg.Log.Level)
	log := logrus.WithField("component", "seed")

	gormAdapter, err := gormdb.New(cfg.PostgresDSN(), gormdb.Options{})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer gormAdapter.Close()

	log.WithField("db", cfg.DB.Name).Info("connected to database")

	if err := gormAdapter.Migrate(&mesgRepo.MessageModel{}); err != nil {
		log.WithError(err).Fatal("auto-migrate failed")
	}

	repo := mesgRepo.NewRepository(gormAdapter)

	for i := 0; i < seedCount; i++ {
		msg, err := domain.NewMessage(randomPhone(), randomContent(i+1), randomQuality())
		if err != nil {
			log.WithError(err).Fatal("invalid seed message")
		}

		if err := repo.Save(ctx, msg); err != nil {
			log.WithError(err).WithField("n", i+1).Fatal("failed to save message")
		}

		log.WithFields(logrus.Fields{
			"id":      msg.ID.String(),
			"to":      msg.To,
			"quality": msg.Quality,
		}).Debug("message created")
	}

	log.WithField("count", seedCount).Info("seeding done")
}

// randomPhone generates an Italian mobile number in E.164 form.
// Example output: +393471234567
func randomPhone() string {
	n := rand.Intn(9000000) + 1000000 // 7 digits
	return fmt.Sprintf("+3934%d%d", rand.Intn(10), n)
}

// randomQuality picks a tier, or "" for the account default.
func randomQuality() sms.Quality {
	choices := append([]sms.Quality{""}, sms.Qualities...)
	return choices[rand.Intn(len(choices))]
}

func randomContent(i int) string {
	now := time.Now().Format("15:04:05")
	return fmt.Sprintf("Seed message #%d queued at %s", i, now)
}
