// Package memory tracks deliberate in-process memory use.
//
// It provides a Manager that registers every earmarked allocation by
// category, maintains a live usage counter, derives a qualitative
// pressure signal (Low/Medium/High), and hands out managed Buffers
// whose accounting is released exactly once regardless of exit path.
package memory
