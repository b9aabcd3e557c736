package diskcache_test

import (
	"fmt"
	"os"
	"time"

	"github.com/jonwraymond/cachekit/diskcache"
)

func ExampleOpen() {
	dir, _ := os.MkdirTemp("", "diskcache")
	defer os.RemoveAll(dir)

	c, err := diskcache.Open(dir)
	if err != nil {
		fmt.Println("open:", err)
		return
	}

	_ = c.Set("greeting", []byte("hello"), time.Hour)

	value, ok := c.Get("greeting")
	fmt.Println(ok, string(value))
	// Output:
	// true hello
}

func ExampleCache_Maintenance() {
	dir, _ := os.MkdirTemp("", "diskcache")
	defer os.RemoveAll(dir)

	c, _ := diskcache.Open(dir)
	_ = c.Set("short", []byte("v"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	report, _ := c.Maintenance()
	fmt.Println("expired removed:", report.ExpiredRemoved)
	fmt.Println("corrupted removed:", report.CorruptedRemoved)
	// Output:
	// expired removed: 1
	// corrupted removed: 0
}
