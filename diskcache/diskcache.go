package diskcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// fileExt marks files owned by the cache; anything else in the
// directory is left alone.
const fileExt = ".cache"

// lockStripes bounds per-key lock memory. Two keys on the same stripe
// merely serialize against each other; correctness does not depend on
// the stripe count.
const lockStripes = 64

// Stats is a point-in-time snapshot of the persisted entry set.
// EntryCount and TotalSize cover entries still physically resident on
// disk, including expired entries not yet swept; run Maintenance first
// for the narrower live view. TotalSize sums uncompressed payload
// sizes, not file sizes.
type Stats struct {
	EntryCount int
	TotalSize  int64
}

// Report tallies one maintenance sweep. Counts are never retroactively
// corrected; a second sweep with no intervening writes reports zeros.
type Report struct {
	ExpiredRemoved   int
	CorruptedRemoved int
}

// Cache is a durable key/value store, one file per key. All methods
// are safe for concurrent use: writers on the same key serialize,
// writers on distinct keys and all readers proceed in parallel. No
// lock is held across an I/O wait except the per-key stripe guarding
// that key's file.
type Cache struct {
	dir   string
	locks [lockStripes]chan struct{}
}

// Open creates or attaches to a cache directory.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrIO, dir, err)
	}
	c := &Cache{dir: dir}
	for i := range c.locks {
		c.locks[i] = make(chan struct{}, 1)
	}
	return c, nil
}

// Dir returns the storage directory.
func (c *Cache) Dir() string {
	return c.dir
}

// filenameFor maps a key to its deterministic, collision-free file
// name: hex(SHA-256(key)) + ".cache".
func filenameFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + fileExt
}

func (c *Cache) lockName(name string) func() {
	h := fnv.New32a()
	h.Write([]byte(name))
	stripe := c.locks[h.Sum32()%lockStripes]
	stripe <- struct{}{}
	return func() { <-stripe }
}

// Set serializes value into an envelope and persists it atomically:
// the envelope is written to a temporary file and renamed into place,
// so no reader ever observes a partial entry. A positive ttl records
// an absolute expiry of now+ttl; ttl<=0 means no expiry.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}

	env := newEnvelope(value, ttl, time.Now())
	data, err := encMode.Marshal(env)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSerialization, key, err)
	}

	name := filenameFor(key)
	unlock := c.lockName(name)
	defer unlock()

	return c.writeFileAtomic(name, data)
}

func (c *Cache) writeFileAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := os.Rename(tmpName, filepath.Join(c.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Get returns the payload for key if the entry exists, has not
// expired, and decodes cleanly. Every other outcome, including
// corruption, is a plain miss: lookups are total and never error.
func (c *Cache) Get(key string) ([]byte, bool) {
	payload, _, ok := c.Entry(key)
	return payload, ok
}

// Entry is Get plus the entry's absolute expiry, nil when the entry
// never expires. Callers repopulating a faster tier use the expiry to
// carry the remaining TTL over.
func (c *Cache) Entry(key string) ([]byte, *time.Time, bool) {
	if key == "" {
		return nil, nil, false
	}

	data, err := os.ReadFile(filepath.Join(c.dir, filenameFor(key)))
	if err != nil {
		return nil, nil, false
	}

	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, nil, false
	}
	if env.expiredAt(time.Now()) {
		return nil, nil, false
	}

	payload, err := env.decodePayload()
	if err != nil {
		return nil, nil, false
	}
	return payload, env.ExpiresAt, true
}

// Delete removes the entry for key. Idempotent - no error on miss.
func (c *Cache) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	name := filenameFor(key)
	unlock := c.lockName(name)
	defer unlock()

	if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %s: %v", ErrIO, key, err)
	}
	return nil
}

// Stats scans the directory and reports the persisted entry set. An
// index would only accelerate this; the scan is the source of truth.
// Entries that fail to decode still count, with their file size as
// the best available size.
func (c *Cache) Stats() (Stats, error) {
	names, err := c.entryNames()
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, name := range names {
		path := filepath.Join(c.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // removed between listing and read
			}
			return Stats{}, fmt.Errorf("%w: %v", ErrIO, err)
		}

		stats.EntryCount++
		var env envelope
		if err := decMode.Unmarshal(data, &env); err != nil {
			stats.TotalSize += int64(len(data))
			continue
		}
		stats.TotalSize += env.Size
	}
	return stats, nil
}

// Maintenance sweeps every persisted entry once, deleting entries past
// expiry and entries that fail to decode. Expiry is judged against the
// sweep start time, re-checked under the per-key lock, so a Set that
// lands mid-sweep is never mistakenly deleted. Each deletion is
// independent; an abandoned sweep leaves no entry half-removed.
func (c *Cache) Maintenance() (Report, error) {
	sweepStart := time.Now()

	names, err := c.entryNames()
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, name := range names {
		removed, corrupted, err := c.sweepEntry(name, sweepStart)
		if err != nil {
			return report, err
		}
		if removed {
			if corrupted {
				report.CorruptedRemoved++
			} else {
				report.ExpiredRemoved++
			}
		}
	}
	return report, nil
}

// sweepEntry examines one entry under its lock and removes it when
// expired or corrupted. Returns (removed, corrupted, err).
func (c *Cache) sweepEntry(name string, sweepStart time.Time) (bool, bool, error) {
	unlock := c.lockName(name)
	defer unlock()

	path := filepath.Join(c.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil // already gone
		}
		return false, false, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var env envelope
	if err := decMode.Unmarshal(data, &env); err == nil {
		if _, perr := env.decodePayload(); perr == nil {
			if !env.expiredAt(sweepStart) {
				return false, false, nil
			}
			// Expired at sweep start; the re-read under the lock means a
			// concurrent fresh Set would have replaced the envelope.
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return false, false, fmt.Errorf("%w: %v", ErrIO, err)
			}
			return true, false, nil
		}
	}

	// Undecodable envelope or payload: corruption.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return false, false, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return true, true, nil
}

func (c *Cache) entryNames() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
