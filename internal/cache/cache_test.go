package cache

import (
	"context"
	"testing"
	"time"

	"github.com/avaldezm/tempo-dashboard-service/internal/models"
)

// TestKey verifies coordinates round to two decimals, so near-identical
// requests share one cache entry.
func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"exact", 19.43, -99.13, "19.43_-99.13"},
		{"rounds down", 19.432, -99.131, "19.43_-99.13"},
		{"rounds up", 19.434, -99.129, "19.43_-99.13"},
		{"zero", 0, 0, "0.00_0.00"},
		{"negative", -33.456, 70.648, "-33.46_70.65"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Key(tc.lat, tc.lon); got != tc.want {
				t.Errorf("Key(%v, %v) = %q, want %q", tc.lat, tc.lon, got, tc.want)
			}
		})
	}
}

func payloadFor(source string) models.DashboardPayload {
	return models.DashboardPayload{
		Metadata: models.Metadata{DataSource: source},
	}
}

// TestLRUCache_GetSet verifies Set stores values and Get retrieves them.
func TestLRUCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewLRUCache(8)
	if err != nil {
		t.Fatalf("NewLRUCache() error = %v", err)
	}

	val := payloadFor("live")
	if err := c.Set(ctx, "19.43_-99.13", val, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := c.Get(ctx, "19.43_-99.13")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if got.Metadata.DataSource != "live" {
		t.Errorf("Get() = %+v, want %+v", got, val)
	}
}

// TestLRUCache_Get_Miss verifies Get returns ok=false for absent keys.
func TestLRUCache_Get_Miss(t *testing.T) {
	c, _ := NewLRUCache(8)
	_, ok, err := c.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true, want false for miss")
	}
}

// TestLRUCache_Get_Expired verifies a hit older than its TTL is treated as a
// miss and removed on access.
func TestLRUCache_Get_Expired(t *testing.T) {
	ctx := context.Background()
	c, _ := NewLRUCache(8)

	if err := c.Set(ctx, "k", payloadFor("live"), time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true, want false for expired entry")
	}
}

// TestLRUCache_Replace verifies writing a key replaces its previous entry.
func TestLRUCache_Replace(t *testing.T) {
	ctx := context.Background()
	c, _ := NewLRUCache(8)

	_ = c.Set(ctx, "k", payloadFor("first"), time.Minute)
	_ = c.Set(ctx, "k", payloadFor("second"), time.Minute)

	got, ok, _ := c.Get(ctx, "k")
	if !ok || got.Metadata.DataSource != "second" {
		t.Errorf("Get() after replace = %+v, ok = %v, want second entry", got, ok)
	}
}

// TestLRUCache_BoundEvictsOldest verifies the size bound evicts the least
// recently used key, keeping memory flat under coordinate churn.
func TestLRUCache_BoundEvictsOldest(t *testing.T) {
	ctx := context.Background()
	c, _ := NewLRUCache(2)

	_ = c.Set(ctx, "a", payloadFor("a"), time.Minute)
	_ = c.Set(ctx, "b", payloadFor("b"), time.Minute)
	_ = c.Set(ctx, "c", payloadFor("c"), time.Minute)

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("oldest key survived eviction, want evicted")
	}
	if _, ok, _ := c.Get(ctx, "b"); !ok {
		t.Error("key b evicted, want retained")
	}
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Error("key c evicted, want retained")
	}
}
