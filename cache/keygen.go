package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeyFor generates a stable cache key from a resource name and optional
// parameters (for example a client-id filter on diet plans). The same
// resource and parameters always produce the same key.
func KeyFor(resource string, params map[string]string) string {
	if len(params) == 0 {
		return sanitizeKey(resource)
	}

	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)

	return sanitizeKey(resource + "__" + strings.Join(parts, "__"))
}

// sanitizeKey collapses overly long keys to a hash so keys stay bounded.
func sanitizeKey(key string) string {
	if len(key) > 200 {
		return fmt.Sprintf("hash_%x", xxhash.Sum64String(key))
	}
	return key
}
