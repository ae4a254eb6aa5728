package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbPingTimeout    = 3 * time.Second
	dbInitialBackoff = 250 * time.Millisecond
	dbMaxBackoff     = 4 * time.Second
)

// openDatabase opens the Postgres pool and waits up to maxWait for it to
// accept connections, with capped exponential backoff between pings. Useful
// when the service and the database start together.
func openDatabase(ctx context.Context, dsn string, maxWait time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	deadline := time.Now().Add(maxWait)
	backoff := dbInitialBackoff

	for {
		pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return db, nil
		}

		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		time.Sleep(backoff)
		if backoff < dbMaxBackoff {
			backoff *= 2
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("database not ready: %w", err)
}
