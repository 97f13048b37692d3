package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/oggyb/skebby-gateway/internal/db"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the connection pool and SQL logging. Zero values keep the
// driver defaults.
type Options struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Logger          *logrus.Entry
}

type GormDB struct {
	conn *gorm.DB
}

func New(dsn string, opts Options) (*GormDB, error) {
	cfg := &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	}
	if opts.Logger != nil {
		cfg.Logger = logger.New(opts.Logger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	conn, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return &GormDB{conn: conn}, nil
}

func (g *GormDB) Conn() any {
	return g.conn
}

// Migrate creates or updates the tables of the given models.
func (g *GormDB) Migrate(models ...any) error {
	return g.conn.AutoMigrate(models...)
}

// Ping checks that the database answers within ctx.
func (g *GormDB) Ping(ctx context.Context) error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (g *GormDB) Close() error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// verify it satisfies db.DB and db.Pinger
var (
	_ db.DB     = (*GormDB)(nil)
	_ db.Pinger = (*GormDB)(nil)
)
