package recommend

import (
	"testing"
	"time"

	"github.com/algocoach/backend/internal/models"
)

func TestCacheHitWithinTTL(t *testing.T) {
	cache := NewCache(10 * time.Minute)
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }

	want := []models.RecommendationResult{{Problem: models.Problem{ID: 1}, Score: 0.7}}
	cache.Put(42, want)

	cache.now = func() time.Time { return base.Add(9 * time.Minute) }
	got, ok := cache.Get(42)
	if !ok {
		t.Fatal("expected a cache hit inside the TTL")
	}
	if len(got) != 1 || got[0].Problem.ID != 1 {
		t.Errorf("got %v, want the stored list", got)
	}
}

func TestCacheExpiresLazily(t *testing.T) {
	cache := NewCache(10 * time.Minute)
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }

	cache.Put(42, []models.RecommendationResult{{Problem: models.Problem{ID: 1}}})

	cache.now = func() time.Time { return base.Add(10*time.Minute + time.Second) }
	if _, ok := cache.Get(42); ok {
		t.Error("expected a miss after the TTL elapsed")
	}

	// The expired entry is gone even if time rolls back.
	cache.now = func() time.Time { return base }
	if _, ok := cache.Get(42); ok {
		t.Error("expired entry was not removed")
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache(10 * time.Minute)
	cache.Put(42, []models.RecommendationResult{{Problem: models.Problem{ID: 1}}})
	cache.Put(43, []models.RecommendationResult{{Problem: models.Problem{ID: 2}}})

	cache.Invalidate(42)

	if _, ok := cache.Get(42); ok {
		t.Error("invalidated entry still present")
	}
	if _, ok := cache.Get(43); !ok {
		t.Error("invalidation removed another user's entry")
	}

	// Invalidating an absent entry is a no-op.
	cache.Invalidate(99)
}
