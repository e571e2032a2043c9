package testutil

import (
	"testing"
	"time"
)

// TestContextHonorsTimeout verifies the returned context carries a deadline
// no later than the requested timeout.
func TestContextHonorsTimeout(t *testing.T) {
	start := time.Now()
	ctx := Context(t, 2*time.Second)
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatalf("expected deadline")
	}
	if deadline.After(start.Add(2*time.Second + 100*time.Millisecond)) {
		t.Fatalf("deadline %v exceeds requested timeout", deadline)
	}
}

// TestContextAcceptsBenchmark verifies a testing.TB without Deadline still
// gets the default timeout.
func TestContextAcceptsBenchmark(t *testing.T) {
	result := testing.Benchmark(func(b *testing.B) {
		ctx := Context(b, 0)
		if _, ok := ctx.Deadline(); !ok {
			b.Fatalf("expected deadline")
		}
	})
	if result.N == 0 {
		t.Fatalf("benchmark did not run")
	}
}
