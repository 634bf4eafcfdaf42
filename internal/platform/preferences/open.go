package preferences

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"promptqr/internal/platform/config"
	"promptqr/internal/platform/database"
)

// Open builds the store selected by cfg.Driver. Driver "none" yields a nil
// store: callers treat that as persistence being unavailable. The returned
// closer is never nil.
func Open(ctx context.Context, cfg config.PreferencesConfig) (Store, io.Closer, error) {
	switch cfg.Driver {
	case "", "memory":
		return Namespace(NewMemoryStore(), cfg.KeyPrefix), nopCloser{}, nil
	case "none":
		return nil, nopCloser{}, nil
	case "sqlite":
		db, err := database.OpenSQLite(cfg.Path, 1)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite preferences: %w", err)
		}
		store := NewSQLStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("create preferences schema: %w", err)
		}
		return Namespace(store, cfg.KeyPrefix), db, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := NewRedisStore(client, cfg.KeyPrefix, cfg.Retention)
		if err := store.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis preferences: %w", err)
		}
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown preferences driver %q", cfg.Driver)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
