package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nexus-suite/helpdesk/internal/config"
)

// Backend is a Surface that can report its health and release resources.
type Backend interface {
	Surface
	Ping(ctx context.Context) error
	Close()
}

type memoryBackend struct{ *Memory }

func (memoryBackend) Close() {}

// Open builds the Surface selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		logger.Info("using in-memory persistence surface")
		return memoryBackend{NewMemory()}, nil
	case config.StorageRedis:
		return NewRedis(cfg.Redis, logger), nil
	case config.StoragePostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
