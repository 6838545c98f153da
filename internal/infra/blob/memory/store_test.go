package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"sprintpulse/internal/blob/core"
)

func TestStore_MissingHeadGet(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found head error, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found get error, got %v", err)
	}
}

func TestStore_AllBranches(t *testing.T) {
	store := New()
	ctx := context.Background()
	if ok, err := store.Delete(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected delete false")
	}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{Metadata: map[string]string{"a": "1"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v2")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected duplicate put error, got %v", err)
	}
	if list, err := store.List(ctx, ""); err != nil || len(list) != 1 {
		t.Fatalf("list all: %v %d", err, len(list))
	}
	if list, err := store.List(ctx, "x"); err != nil || len(list) != 0 {
		t.Fatalf("list other prefix: %v %d", err, len(list))
	}
	if _, err := store.PresignURL(ctx, "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected unsupported presign")
	}
}

func TestStore_ReplaceOverwrites(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Put(ctx, "state", bytes.NewBufferString("one"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := store.Put(ctx, "state", bytes.NewBufferString("three"), core.PutOptions{Replace: true, ContentType: "application/json"})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if info.Size != 5 {
		t.Fatalf("unexpected size %d", info.Size)
	}
	got, r, err := store.Get(ctx, "state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = r.Close() }()
	b, _ := io.ReadAll(r)
	if string(b) != "three" || got.ContentType != "application/json" {
		t.Fatalf("unexpected blob %q %+v", b, got)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", bytes.NewBufferString("abc"), core.PutOptions{Metadata: map[string]string{"m": "1"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, r, _ := store.Get(ctx, "k")
	info.Metadata["m"] = "changed"
	b, _ := io.ReadAll(r)
	b[0] = 'z'
	head, _ := store.Head(ctx, "k")
	if head.Metadata["m"] != "1" {
		t.Fatalf("metadata aliased")
	}
	_, r2, _ := store.Get(ctx, "k")
	b2, _ := io.ReadAll(r2)
	if string(b2) != "abc" {
		t.Fatalf("data aliased: %q", b2)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStore_PutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
}
