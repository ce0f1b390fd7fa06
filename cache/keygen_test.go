package cache

import (
	"strings"
	"testing"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		resource string
		params   map[string]string
		expected string
	}{
		{"clients", nil, "clients"},
		{"clients", map[string]string{}, "clients"},
		{"dietplans", map[string]string{"client_id": "7"}, "dietplans__client_id=7"},
		{"sessions", map[string]string{"to": "b", "from": "a"}, "sessions__from=a__to=b"},
	}

	for _, tt := range tests {
		result := KeyFor(tt.resource, tt.params)
		if result != tt.expected {
			t.Errorf("KeyFor(%q, %v) = %q, want %q", tt.resource, tt.params, result, tt.expected)
		}
	}
}

func TestKeyForStableAcrossMapOrder(t *testing.T) {
	params := map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}
	first := KeyFor("tasks", params)
	for i := 0; i < 50; i++ {
		if got := KeyFor("tasks", params); got != first {
			t.Fatalf("key changed across calls: %q vs %q", got, first)
		}
	}
}

func TestKeyForLongKeyHashed(t *testing.T) {
	long := strings.Repeat("x", 300)
	key := KeyFor(long, nil)
	if !strings.HasPrefix(key, "hash_") {
		t.Errorf("expected long key to be hashed, got %q", key)
	}
	if len(key) > 30 {
		t.Errorf("hashed key should be short, got %d bytes", len(key))
	}
	if key != KeyFor(long, nil) {
		t.Error("hashed key should be deterministic")
	}
}
