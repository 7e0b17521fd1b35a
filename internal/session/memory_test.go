package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	actor := uuid.New()

	sess, err := store.Create(ctx, actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := store.Lookup(ctx, sess.ID)
	if err != nil || got != actor {
		t.Fatalf("Lookup: want=%s got=%s (%v)", actor, got, err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Lookup(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted session: want ErrNotFound, got %v", err)
	}
	if _, err := store.Lookup(ctx, "unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown session: want ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(10 * time.Minute)
	store.now = func() time.Time { return now }

	a, _ := store.Create(ctx, uuid.New())
	now = now.Add(5 * time.Minute)
	b, _ := store.Create(ctx, uuid.New())

	now = now.Add(6 * time.Minute)
	if _, err := store.Lookup(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session: want ErrNotFound, got %v", err)
	}
	if _, err := store.Lookup(ctx, b.ID); err != nil {
		t.Fatalf("live session: %v", err)
	}

	now = now.Add(10 * time.Minute)
	if n := store.Sweep(); n != 1 {
		t.Fatalf("Sweep: want=1 got=%d", n)
	}
}
