package cache

import "time"

// Policy configures TTL behavior.
type Policy struct {
	// DefaultTTL is the TTL applied when a caller passes none.
	// If zero, entries without an explicit TTL never expire.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Longer TTLs are clamped.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// EffectiveTTL returns the TTL to use, applying the default and
// clamping. A non-positive override means "none specified".
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
