package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/skebby-gateway/internal/cache/redis"
	"github.com/oggyb/skebby-gateway/internal/config"
	dbport "github.com/oggyb/skebby-gateway/internal/db"
	"github.com/oggyb/skebby-gateway/internal/db/gormdb"
	"github.com/oggyb/skebby-gateway/internal/handler"
	mesgRepo "github.com/oggyb/skebby-gateway/internal/repository/gorm/message"
	routes "github.com/oggyb/skebby-gateway/internal/router"
	"github.com/oggyb/skebby-gateway/internal/scheduler"
	"github.com/oggyb/skebby-gateway/internal/server"
	"github.com/oggyb/skebby-gateway/internal/service"
	"github.com/oggyb/skebby-gateway/internal/sms"
	"github.com/sirupsen/logrus"
)

// @title       Skebby SMS Gateway API
// @version     1.0
// @description Queues SMS, dispatches them through Skebby and reports remaining credits.
// @BasePath    /
func main() {
	// Base context for the whole application lifetime.
	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Load configuration from environment/.env.
	cfg := config.New()

	logrus.SetLevel(cfg.Log.Level)
	if cfg.Log.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	log := logrus.WithField("app", cfg.App.Name)

	// Init cache.
	cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(rootCtx); err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer cache.Close()

	// Init DB.
	db, err := gormdb.New(cfg.PostgresDSN(), gormdb.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		Logger:          log.WithField("component", "gorm"),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect db")
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(&mesgRepo.MessageModel{}); err != nil {
			log.WithError(err).Fatal("auto-migrate failed")
		}
		log.Info("messages table migrated")
	}

	// Init Skebby client. The login doubles as a credentials check.
	smsClient, err := sms.NewSkebbyClient(cfg.SkebbyConfig(log.WithField("component", "skebby")))
	if err != nil {
		log.WithError(err).Fatal("invalid Skebby configuration")
	}
	if err := smsClient.Health(rootCtx); err != nil {
		log.WithError(err).Fatal("failed to log in to Skebby")
	}
	log.WithField("quality", smsClient.Quality()).Info("Skebby session established")

	// Init repository and services.
	msgRepository := mesgRepo.NewRepository(db)
	msgSvc := service.NewMessageService(
		msgRepository,
		smsClient,
		cache,
		service.MessageOptions{
			BatchSize:          cfg.Worker.BatchSize,
			MaxWorkers:         cfg.Worker.MaxWorkers,
			PerMessageTimeout:  cfg.Worker.PerMessageTimeout,
			LowCreditThreshold: cfg.Skebby.LowCreditThreshold,
		},
	)
	accSvc := service.NewAccountService(smsClient, cache)

	// Dispatcher
	cron := scheduler.NewSchedulerService(rootCtx, msgSvc, scheduler.Options{
		Interval:     cfg.Scheduler.Interval,
		BatchTimeout: cfg.Scheduler.BatchTimeout,
		Logger:       log,
	})

	// Handlers
	deps := routes.AppDeps{
		Home:    handler.NewHomeHandler(map[string]dbport.Pinger{"postgres": db, "redis": cache}),
		Message: handler.NewMessageHandler(msgSvc, cron),
		Account: handler.NewAccountHandler(accSvc),
	}

	// Init Server
	addr := fmt.Sprintf("%s:%s", cfg.API.Host, cfg.API.Port)
	srv := server.New(addr, deps, log.WithField("component", "http"))

	// Create a context that is cancelled on SIGINT/SIGTERM (Ctrl+C, docker stop etc.).
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", addr).Info("HTTP server listening")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	if cfg.Scheduler.AutoStart {
		if err := cron.Start(); err != nil {
			log.WithError(err).Fatal("failed to start scheduler")
		}
	}

	// Block until we receive a shutdown signal.
	<-ctx.Done()
	log.Info("shutdown signal received, starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop the scheduler (waits for in-flight batch to finish or timeout).
	if err := cron.Stop(); err != nil {
		log.WithError(err).Error("scheduler did not stop cleanly")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server graceful shutdown failed")
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("shutdown complete")
}
