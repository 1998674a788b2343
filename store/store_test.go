package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rushteam/pantryrec/core"
)

func exerciseStore(t *testing.T, s core.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) error = %v, want not found", err)
	}
	if err := s.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "k1")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get(k1) = %q, %v", got, err)
	}

	if err := s.BatchSet(ctx, map[string][]byte{"k2": []byte("v2"), "k3": []byte("v3")}); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}
	batch, err := s.BatchGet(ctx, []string{"k1", "k2", "k3", "k4"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(batch) != 3 || string(batch["k3"]) != "v3" {
		t.Errorf("BatchGet() = %v", batch)
	}

	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "k1"); !core.IsStoreNotFound(err) {
		t.Errorf("Get after Delete error = %v, want not found", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreTTL(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	s.mu.Lock()
	s.data["old"] = &entry{value: []byte("x"), expire: time.Now().Add(-time.Second)}
	s.mu.Unlock()
	if _, err := s.Get(context.Background(), "old"); !core.IsStoreNotFound(err) {
		t.Errorf("expired key error = %v, want not found", err)
	}
	if err := s.Set(context.Background(), "fresh", []byte("y"), 60); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "fresh"); err != nil {
		t.Errorf("Get(fresh) error = %v", err)
	}
	// 重复 Close 不应 panic
	_ = s.Close()
}

// TestRedisStore 需要真实的 Redis，设置 PANTRYREC_REDIS_ADDR 后运行
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("PANTRYREC_REDIS_ADDR")
	if addr == "" {
		t.Skip("PANTRYREC_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), addr, 0)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}
