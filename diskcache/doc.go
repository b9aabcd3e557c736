// Package diskcache provides a durable, TTL-aware key/value store
// backed by local files.
//
// Each key maps to one file named from the SHA-256 of the key. Writes
// are atomic (temp file + rename), so a reader never observes a
// half-written entry and entries survive process restarts. Expired or
// undecodable entries are indistinguishable from a miss on Get and are
// physically removed by Maintenance.
package diskcache
