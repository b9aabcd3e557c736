package cache

import (
	"testing"
	"time"
)

// TestPolicy_EffectiveTTL tests default application and clamping.
func TestPolicy_EffectiveTTL(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		override time.Duration
		want     time.Duration
	}{
		{"no policy, no override", Policy{}, 0, 0},
		{"no policy, explicit override", Policy{}, time.Minute, time.Minute},
		{"default applied", Policy{DefaultTTL: time.Hour}, 0, time.Hour},
		{"override beats default", Policy{DefaultTTL: time.Hour}, time.Minute, time.Minute},
		{"negative override means none", Policy{DefaultTTL: time.Hour}, -1, time.Hour},
		{"clamped to max", Policy{MaxTTL: time.Minute}, time.Hour, time.Minute},
		{"default clamped to max", Policy{DefaultTTL: time.Hour, MaxTTL: time.Minute}, 0, time.Minute},
		{"under max untouched", Policy{MaxTTL: time.Hour}, time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.EffectiveTTL(tt.override); got != tt.want {
				t.Errorf("EffectiveTTL(%v) = %v, want %v", tt.override, got, tt.want)
			}
		})
	}
}
