package diskcache

import (
	"testing"
	"time"
)

// TestEnvelope_SubSecondExpiry verifies a sub-second TTL survives the
// encode/decode round trip: the expiry must stay after the write time
// rather than rounding down to a whole second at or before it.
func TestEnvelope_SubSecondExpiry(t *testing.T) {
	now := time.Now()
	env := newEnvelope([]byte("v"), 100*time.Millisecond, now)

	data, err := encMode.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}

	var got envelope
	if err := decMode.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}

	if got.ExpiresAt == nil {
		t.Fatal("ExpiresAt lost in round trip")
	}
	if got.expiredAt(now) {
		t.Errorf("entry expired at its own write time: expiry %v, written %v", got.ExpiresAt, now)
	}
	if !got.expiredAt(now.Add(150 * time.Millisecond)) {
		t.Errorf("entry not expired 150ms after write: expiry %v", got.ExpiresAt)
	}
}

// TestEnvelope_NoExpiry verifies ttl<=0 stores no expiry.
func TestEnvelope_NoExpiry(t *testing.T) {
	env := newEnvelope([]byte("v"), 0, time.Now())
	if env.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", env.ExpiresAt)
	}
	if env.expiredAt(time.Now().Add(24 * time.Hour)) {
		t.Error("entry without expiry reported expired")
	}
}
