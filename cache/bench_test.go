package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func BenchmarkLRUCache_Set(b *testing.B) {
	c := NewLRUCache(10000, nil)
	ctx := context.Background()
	value := []byte("benchmark payload")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Set(ctx, fmt.Sprintf("key-%d", i%10000), value, time.Hour)
	}
}

func BenchmarkLRUCache_Get(b *testing.B) {
	c := NewLRUCache(10000, nil)
	ctx := context.Background()
	for i := 0; i < 10000; i++ {
		_ = c.Set(ctx, fmt.Sprintf("key-%d", i), []byte("benchmark payload"), time.Hour)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(ctx, fmt.Sprintf("key-%d", i%10000))
	}
}

func BenchmarkManager_Set(b *testing.B) {
	cfg := DefaultConfig()
	cfg.CleanupInterval = time.Hour
	m, err := NewManager(cfg)
	if err != nil {
		b.Fatalf("NewManager() = %v", err)
	}
	defer m.Close()

	ctx := context.Background()
	value := note{Author: "bench", Body: "payload"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Set(ctx, fmt.Sprintf("key-%d", i%1000), value, time.Hour)
	}
}

func BenchmarkManager_Get(b *testing.B) {
	cfg := DefaultConfig()
	cfg.CleanupInterval = time.Hour
	m, err := NewManager(cfg)
	if err != nil {
		b.Fatalf("NewManager() = %v", err)
	}
	defer m.Close()

	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		_ = m.Set(ctx, fmt.Sprintf("key-%d", i), note{Body: "payload"}, time.Hour)
	}

	var out note
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Get(ctx, fmt.Sprintf("key-%d", i%1000), &out)
	}
}

func BenchmarkCBORCodec_Marshal(b *testing.B) {
	codec := CBORCodec{}
	value := note{Author: "bench", Body: "a moderately sized payload body"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Marshal(value); err != nil {
			b.Fatal(err)
		}
	}
}
