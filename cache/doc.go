// Package cache composes the fast in-memory store, the durable disk
// cache, and memory-aware policy behind one Manager.
//
// Writes go to the bounded LRU fast store and, when enabled, through
// to the durable cache; reads check the fast store first and fall
// back to disk, repopulating on hit. A background maintenance loop
// sweeps the durable cache and reclaims tracked memory.
package cache
