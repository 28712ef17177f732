package store

import (
	"context"
	"fmt"

	"rollcall/internal/attendance"
	"rollcall/internal/config"
)

// Backend is a roster Store that can report its health and be closed.
type Backend interface {
	attendance.Store
	Healthy(ctx context.Context) bool
	Close() error
}

// Open returns the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg config.App) (Backend, error) {
	switch cfg.StoreBackend {
	case "sqlite", "":
		return NewSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "redis":
		r := NewRedis(cfg.RedisAddr)
		if !r.Healthy(ctx) {
			_ = r.Close()
			return nil, fmt.Errorf("redis not reachable at %s", cfg.RedisAddr)
		}
		return r, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
