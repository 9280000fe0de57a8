// Package cache provides a generic, thread-safe LRU cache with optional
// eviction callbacks.
//
// The cache holds a fixed number of entries; adding past capacity evicts the
// least recently used one. An eviction callback, when configured, runs for
// every entry that leaves the cache, which makes the cache suitable for
// managing values that own resources (open streams, connections, file
// handles).
//
//	c := cache.New[string, *os.File](32,
//		cache.WithEvictCallback(func(name string, f *os.File) {
//			f.Close()
//		}),
//	)
//	c.Put("log", f)
//	f, ok := c.Get("log")
//
// Get, Put, Remove, Len, and Purge are all O(1) and safe for concurrent use.
package cache
