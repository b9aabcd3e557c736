// Package observe provides observability primitives for the cache and
// memory layer.
//
// It is a pure instrumentation library: no caching, no storage, no I/O
// beyond exporter setup. The cache manager wires an Observer in at
// construction; nothing here is a process-wide singleton.
package observe
