package storefront

import (
	"testing"
	"time"
)

func TestChartCacheMemoizesWithinTTL(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<chart>", nil
	}

	for i := 0; i < 3; i++ {
		html, err := cache.GetOrRender("key", render)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if html != "<chart>" {
			t.Fatalf("unexpected html %q", html)
		}
	}
	if calls != 1 {
		t.Fatalf("expected single render, got %d", calls)
	}
}

func TestChartCacheZeroTTLDisablesCaching(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<chart>", nil
	}
	_, _ = cache.GetOrRender("key", render)
	_, _ = cache.GetOrRender("key", render)
	if calls != 2 {
		t.Fatalf("expected renders to bypass cache, got %d calls", calls)
	}
}

func TestConfigHashDistinguishesData(t *testing.T) {
	a := configHash(map[string]any{"title": "Revenue", "data": []RevenuePoint{{Label: "Mon", Value: 1}}})
	b := configHash(map[string]any{"title": "Revenue", "data": []RevenuePoint{{Label: "Mon", Value: 2}}})
	if a == b {
		t.Fatalf("different data should hash differently")
	}
	if configHash(nil) != "empty" {
		t.Fatalf("nil config should hash to empty")
	}
}
