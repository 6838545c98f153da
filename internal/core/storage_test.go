package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"sprintpulse/internal/blob"
	"sprintpulse/internal/config"
	"sprintpulse/internal/persist"
	"sprintpulse/pkg/domain"
)

func TestOpenKVMemory(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenKV(ctx, config.Storage{Driver: config.StorageMemory})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := kv.Get(ctx, persist.StorageKey); !errors.Is(err, persist.ErrNotFound) {
		t.Fatalf("expected empty store, got %v", err)
	}
}

func TestOpenKVBlobFilesystem(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	cfg := config.Storage{
		Driver: config.StorageBlob,
		Blob:   config.Blob{Driver: blob.DriverFilesystem, Prefix: "me", FS: config.FS{Root: root}},
	}
	kv, err := OpenKV(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Put(ctx, persist.StorageKey, []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	reopened, err := OpenKV(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, err := reopened.Get(ctx, persist.StorageKey); err != nil || string(got) != `{}` {
		t.Fatalf("expected value to survive reopen, got %q err=%v", got, err)
	}
}

func TestOpenKVSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "sprintpulse.db")
	kv, err := OpenKV(ctx, config.Storage{Driver: config.StorageSQLite, SQLite: config.SQLite{Path: path}})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = kv.Close() }()
	if err := kv.Put(ctx, persist.StorageKey, []byte(`{"currentWeek":2}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
}

func TestOpenAdapterLogsSQLitePath(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage = config.Storage{Driver: config.StorageSQLite, SQLite: config.SQLite{Path: filepath.Join(t.TempDir(), "sprintpulse.db")}}
	cfg.Export = config.Blob{Driver: blob.DriverMemory}
	logger := &captureLogger{}
	adapter, err := OpenAdapter(ctx, cfg, logger)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = adapter.Close() }()
	if !logger.has("i:state database opened") {
		t.Fatalf("expected database path logged, got %v", logger.calls)
	}
}

func TestOpenKVErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := OpenKV(ctx, config.Storage{Driver: "etcd"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := OpenKV(ctx, config.Storage{Driver: config.StorageBlob, Blob: config.Blob{Driver: "tape"}}); err == nil {
		t.Fatalf("expected blob driver error")
	}
}

func TestOpenAdapterWiresExports(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage = config.Storage{Driver: config.StorageMemory}
	cfg.Export = config.Blob{Driver: blob.DriverFilesystem, FS: config.FS{Root: t.TempDir()}}
	adapter, err := OpenAdapter(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("open adapter: %v", err)
	}
	defer func() { _ = adapter.Close() }()

	store, err := Open(ctx, adapter)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.UpdateVision(ctx, "Exported vision"); err != nil {
		t.Fatalf("vision: %v", err)
	}
	info, err := store.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if info.Key != persist.ExportName(domain.FirstWeek) || info.URL == "" {
		t.Fatalf("unexpected export info %+v", info)
	}

	cfg.Export.Driver = "ftp"
	if _, err := OpenAdapter(ctx, cfg, nil); err == nil {
		t.Fatalf("expected export store error")
	}
}
