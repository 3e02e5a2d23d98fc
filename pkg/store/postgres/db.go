package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Settings struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

func DefaultSettings(dsn string) Settings {
	return Settings{
		DSN:          dsn,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		MaxIdleTime:  "5m",
	}
}

// New opens a pooled connection and checks that the server answers.
func New(ctx context.Context, settings Settings) (*sqlx.DB, error) {
	if settings.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	idle, err := time.ParseDuration(settings.MaxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("invalid max idle time: %w", err)
	}

	db, err := sqlx.Open("postgres", settings.DSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	db.SetMaxOpenConns(settings.MaxOpenConns)
	db.SetMaxIdleConns(settings.MaxIdleConns)
	db.SetConnMaxIdleTime(idle)

	return db, nil
}
