package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, prefix), mr
}

func TestCacheHelper_SetAndGet(t *testing.T) {
	helper, _ := newTestHelper(t, "catalog:")
	ctx := context.Background()

	type program struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}

	original := []program{{ID: 1, Name: "BS Computer Science"}, {ID: 2, Name: "BS Mathematics"}}
	if err := helper.Set(ctx, "programs", original, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var cached []program
	if err := helper.Get(ctx, "programs", &cached); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(cached) != 2 || cached[0].Name != "BS Computer Science" {
		t.Errorf("Unexpected cached value: %+v", cached)
	}

	t.Run("MissingKey", func(t *testing.T) {
		var dest []program
		if err := helper.Get(ctx, "unknown", &dest); err != ErrCacheNotFound {
			t.Errorf("Expected ErrCacheNotFound, got %v", err)
		}
	})
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, _ := newTestHelper(t, "stats:")
	ctx := context.Background()

	for _, key := range []string{"dashboard", "applications", "payments"} {
		if err := helper.Set(ctx, key, map[string]int{"total": 5}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.Delete(ctx, "dashboard", "applications"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var dest map[string]int
	if err := helper.Get(ctx, "dashboard", &dest); err != ErrCacheNotFound {
		t.Errorf("Expected dashboard to be deleted, got %v", err)
	}
	if err := helper.Get(ctx, "payments", &dest); err != nil {
		t.Errorf("Expected payments to survive, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t, "catalog:")
	ctx := context.Background()

	keys := []string{"programs:active:true", "programs:active:false", "sessions"}
	for _, key := range keys {
		if err := helper.Set(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "programs:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	var dest string
	for _, key := range []string{"programs:active:true", "programs:active:false"} {
		if err := helper.Get(ctx, key, &dest); err != ErrCacheNotFound {
			t.Errorf("Expected %q to be invalidated, got %v", key, err)
		}
	}
	if err := helper.Get(ctx, "sessions", &dest); err != nil {
		t.Errorf("Expected sessions to survive, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t, "fees:")
	ctx := context.Background()

	t.Run("MissExecutesFetch", func(t *testing.T) {
		calls := 0
		var dest map[string]float64
		err := helper.CacheOrExecute(ctx, "program:1:session:1", &dest, time.Minute, func() (interface{}, error) {
			calls++
			return map[string]float64{"application_fee": 500}, nil
		})
		if err != nil {
			t.Fatalf("CacheOrExecute failed: %v", err)
		}
		if calls != 1 {
			t.Errorf("Expected fetch to run once, ran %d times", calls)
		}
		if dest["application_fee"] != 500 {
			t.Errorf("Unexpected destination value: %+v", dest)
		}
	})

	t.Run("HitSkipsFetch", func(t *testing.T) {
		if err := helper.Set(ctx, "program:2:session:1", map[string]float64{"admission_fee": 2000}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		var dest map[string]float64
		err := helper.CacheOrExecute(ctx, "program:2:session:1", &dest, time.Minute, func() (interface{}, error) {
			t.Error("Fetch should not run on a cache hit")
			return nil, nil
		})
		if err != nil {
			t.Fatalf("CacheOrExecute failed: %v", err)
		}
		if dest["admission_fee"] != 2000 {
			t.Errorf("Unexpected destination value: %+v", dest)
		}
	})
}

func TestCacheManager_NilClient(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	// Every operation degrades gracefully without Redis.
	if err := cm.InvalidateCatalog(ctx); err != nil {
		t.Errorf("InvalidateCatalog should be a no-op, got %v", err)
	}
	if err := cm.InvalidateStats(ctx); err != nil {
		t.Errorf("InvalidateStats should be a no-op, got %v", err)
	}
	if err := cm.Fees.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Errorf("Set should be a no-op, got %v", err)
	}

	calls := 0
	var dest string
	err := cm.Stats.CacheOrExecute(ctx, "dashboard", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return "fresh", nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 || dest != "fresh" {
		t.Errorf("Expected fetch fallback, calls=%d dest=%q", calls, dest)
	}

	if err := cm.HealthCheck(ctx); err != ErrCacheNotAvailable {
		t.Errorf("Expected ErrCacheNotAvailable, got %v", err)
	}
}
