// Package cache provides the in-memory cache that holds fetched secrets for
// the duration of one run.
//
// Entries never expire: the process replaces itself with the target command
// once resolution is done, discarding the cache. Caches are owned by a single
// goroutine and are not synchronized.
package cache
