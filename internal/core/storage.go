package core

import (
	"context"
	"fmt"

	"sprintpulse/internal/blob"
	"sprintpulse/internal/config"
	"sprintpulse/internal/infra/kv/blobkv"
	"sprintpulse/internal/infra/kv/postgres"
	"sprintpulse/internal/infra/kv/sqlite"
	"sprintpulse/internal/persist"
)

// OpenKV opens the backend the state document is stored in.
func OpenKV(ctx context.Context, cfg config.Storage) (persist.KV, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return blobkv.New(blob.NewMemory(), ""), nil
	case "", config.StorageSQLite:
		store, err := sqlite.NewStore(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return store, nil
	case config.StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return store, nil
	case config.StorageBlob:
		blobs, err := blob.Open(ctx, cfg.Blob.BlobConfig())
		if err != nil {
			return nil, fmt.Errorf("open blob storage: %w", err)
		}
		return blobkv.New(blobs, cfg.Blob.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// OpenAdapter opens the storage backend and the export store and wires them
// into a persistence adapter.
func OpenAdapter(ctx context.Context, cfg config.Config, logger persist.Logger) (*persist.Adapter, error) {
	kv, err := OpenKV(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	if db, ok := kv.(*sqlite.Store); ok && logger != nil {
		logger.Info("state database opened", "path", db.Path())
	}
	exports, err := blob.Open(ctx, cfg.Export.BlobConfig())
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("open export store: %w", err)
	}
	return persist.NewAdapter(kv, persist.WithExportStore(exports), persist.WithLogger(logger)), nil
}
