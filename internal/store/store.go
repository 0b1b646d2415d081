package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reputation-bot/internal/config"

	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("not found")

// Store persists whole-snapshot blobs by key. Save overwrites atomically.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
	Close() error
}

func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "file":
		return NewFileStore(cfg.Dir)
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, errors.New("POSTGRES_DSN is required for the postgres snapshot backend")
		}
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case "redis":
		return NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}

// LoadJSON decodes the blob stored under key into out. A missing or corrupt
// blob leaves out untouched and reports false.
func LoadJSON(ctx context.Context, s Store, key string, out any) bool {
	b, err := s.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("snapshot load failed; using default")
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("snapshot corrupt; using default")
		return false
	}
	return true
}
