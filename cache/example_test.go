package cache_test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonwraymond/cachekit/cache"
)

func Example() {
	dir, _ := os.MkdirTemp("", "cachekit-example")
	defer os.RemoveAll(dir)

	cfg := cache.DefaultConfig()
	cfg.EnableDiskCache = true
	cfg.CacheDir = dir

	m, err := cache.NewManager(cfg)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer m.Close()

	ctx := context.Background()

	type result struct {
		Tool   string `json:"tool"`
		Output string `json:"output"`
	}

	_ = m.Set(ctx, "lint:abc123", result{Tool: "lint", Output: "clean"}, time.Hour)

	var got result
	if m.Get(ctx, "lint:abc123", &got) {
		fmt.Println(got.Tool, got.Output)
	}

	var missing result
	fmt.Println("miss:", m.Get(ctx, "lint:unknown", &missing))

	// Output:
	// lint clean
	// miss: false
}

func ExampleManager_ShouldStreamFile() {
	m, err := cache.NewManager(cache.DefaultConfig())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer m.Close()

	fmt.Println(m.ShouldStreamFile(1024))
	fmt.Println(m.ShouldStreamFile(512 * 1024 * 1024))

	// Output:
	// false
	// true
}
