package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)

	// non-zero DB to verify it's set
	c, err := OpenRedis(context.Background(), s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.HSet(ctx, "impact:"+strings.Repeat("b", 32), "metric", 10).Err(); err != nil {
		t.Fatalf("HSET err: %v", err)
	}
	if !s.Exists("impact:" + strings.Repeat("b", 32)) {
		t.Fatal("key not written to miniredis")
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	// unresolvable host fails the ping without waiting out the timeout
	_, err := OpenRedis(context.Background(), "not-a-real-host:6379", 0)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "not-a-real-host") {
		t.Fatalf("error should name the address: %v", err)
	}
}

func TestOpenRedis_CancelledContext(t *testing.T) {
	s := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := OpenRedis(ctx, s.Addr(), 0); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
