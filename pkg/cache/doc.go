// Package cache stores rendered locale payloads (bundle JSON, plugin
// scripts) so they are encoded once per bundle version rather than per
// request.
//
// Two stores implement Store:
//
//   - Memory keeps entries in process with TTL expiration and LRU eviction
//     bounded by entry count and total bytes.
//   - Redis keeps entries as hashes so several instances share the work.
//
// GetOrSet renders on a miss and collapses concurrent misses for one key
// into a single render:
//
//	e, err := cache.GetOrSet(ctx, store, "script:uk", func(ctx context.Context) (cache.Entry, time.Duration, error) {
//		var buf bytes.Buffer
//		if err := locale.WriteScript(&buf, "uk", "Ukrainian", bundle, schema); err != nil {
//			return cache.Entry{}, 0, err
//		}
//		return cache.NewEntry("application/javascript; charset=utf-8", buf.Bytes()), 0, nil
//	})
//
// Entries carry a strong ETag derived from the body with xxhash, so
// conditional requests can be answered without touching the body.
package cache
