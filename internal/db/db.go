package db

import "context"

// DB is a generic database port that allows swapping
// GORM, sqlc, pgx, bun, ent or even in-memory DB.
type DB interface {
	Conn() any
}

// Pinger is anything whose reachability can be checked: the database
// adapter, the cache client.
type Pinger interface {
	Ping(ctx context.Context) error
}
