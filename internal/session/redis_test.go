package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	store := NewRedisStore(rdb, RedisConfig{KeyPrefix: "workbook:test:" + uuid.NewString() + ":", TTL: time.Minute})
	actor := uuid.New()
	sess, err := store.Create(ctx, actor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ttl := rdb.TTL(ctx, store.key(sess.ID)).Val(); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("key ttl: got %v", ttl)
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
}

func TestNewRedisClientRequiresAddr(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), RedisConfig{}); err == nil {
		t.Fatal("expected error for empty address")
	}
}
