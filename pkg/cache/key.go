package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached campaign API response. Pagination parameters live
// in the query values, so each page gets its own entry.
type Key struct {
	// Endpoint is the API endpoint path (e.g. "/api/3/campaigns")
	Endpoint string

	// QueryParams are the request's query parameters
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: acx:endpoint:param1=val1:param2=val2
//
// Example:
//
//	acx:api/3/campaigns:limit=100:offset=200
func (k Key) String() string {
	parts := []string{"acx"}

	// Add endpoint (normalize path)
	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Add query params (sorted for determinism)
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
