package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"eunoia/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*historyCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewHistoryCache(client).(*historyCache), mr
}

func assessments(n int) []model.RiskAssessment {
	out := make([]model.RiskAssessment, n)
	for i := range out {
		out[i] = model.RiskAssessment{ID: "a-" + strconv.Itoa(i), UserID: "u", RiskScore: 50, RiskLevel: model.RiskLow}
	}
	return out
}

func TestHistoryCacheFillAndGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "u")
	if err != nil || got != nil {
		t.Fatalf("expected miss, got %v %v", got, err)
	}

	if err := c.Fill(ctx, "u", 0, assessments(HistoryLimit+5)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	got, err = c.Get(ctx, "u")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != HistoryLimit || got[0].ID != "a-0" || got[HistoryLimit-1].ID != "a-19" {
		t.Fatalf("unexpected list: %d items", len(got))
	}
	if ttl := mr.TTL(c.key("u")); ttl != time.Hour {
		t.Fatalf("ttl=%v, want 1h", ttl)
	}

	if err := c.Fill(ctx, "empty", 0, nil); err != nil {
		t.Fatalf("Fill empty: %v", err)
	}
	if mr.Exists(c.key("empty")) {
		t.Fatalf("empty history should not be cached")
	}
}

func TestHistoryCacheInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Fill(ctx, "u", 0, assessments(3)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := c.Invalidate(ctx, "u"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if got, _ := c.Get(ctx, "u"); got != nil {
		t.Fatalf("list survived invalidation: %d items", len(got))
	}
	v, err := c.Version(ctx, "u")
	if err != nil || v != 1 {
		t.Fatalf("version=%d err=%v, want 1", v, err)
	}
	if ttl := mr.TTL(c.versionKey("u")); ttl != 24*time.Hour {
		t.Fatalf("version ttl=%v, want 24h", ttl)
	}
}

func TestHistoryCacheFillAfterConcurrentWrite(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	// A reader takes the version and loads one assessment from the store...
	v, err := c.Version(ctx, "u")
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	stale := assessments(1)

	// ...while a writer stores a second one
	if err := c.Invalidate(ctx, "u"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	if err := c.Fill(ctx, "u", v, stale); err != nil {
		t.Fatalf("stale Fill should be dropped silently: %v", err)
	}
	if got, _ := c.Get(ctx, "u"); got != nil {
		t.Fatalf("stale list was cached: %d items", len(got))
	}

	current, _ := c.Version(ctx, "u")
	if err := c.Fill(ctx, "u", current, assessments(2)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if got, _ := c.Get(ctx, "u"); len(got) != 2 {
		t.Fatalf("fresh list not cached: %d items", len(got))
	}
}

func TestNoopHistoryCache(t *testing.T) {
	var c HistoryCache = NoopHistoryCache{}
	ctx := context.Background()
	if err := c.Fill(ctx, "u", 0, assessments(2)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if got, err := c.Get(ctx, "u"); got != nil || err != nil {
		t.Fatalf("noop cache returned %v %v", got, err)
	}
}
