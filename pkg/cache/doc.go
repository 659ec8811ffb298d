// Package cache provides campaign API response caching with a Redis backend.
//
// The cache manager keeps raw page responses keyed by endpoint and query
// parameters, which makes repeated runs against an unchanged account cheap:
//
//   - TTL from the Expires header, with a short default fallback
//   - ETag support for conditional requests (If-None-Match)
//   - Last-Modified support (If-Modified-Since)
//   - Prometheus metrics for observability
//   - Deterministic cache key generation per page
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		Endpoint:    "/api/3/campaigns",
//		QueryParams: url.Values{"limit": []string{"100"}, "offset": []string{"0"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from the API
//	}
//
// # HTTP Response Caching
//
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// The API returns 304 if the page has not changed
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - campaign_export_cache_hits_total{layer="redis"} - Cache hits
//   - campaign_export_cache_misses_total - Cache misses
//   - campaign_export_cache_size_bytes{layer="redis"} - Cache size
//   - campaign_export_cache_errors_total{operation} - Cache operation errors
package cache
