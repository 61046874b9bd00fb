package ping

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestCheckAllDeduplicatesAndBounds(t *testing.T) {
	var calls, active, peak atomic.Int32
	check := func(ctx context.Context, host string, timeout time.Duration) *Result {
		calls.Add(1)
		n := active.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		if host == "up.example" {
			return &Result{Host: host, Success: true, Latency: time.Millisecond}
		}
		return &Result{Host: host, Error: errors.New("timeout")}
	}

	hosts := []string{"up.example", "down.example", "up.example", "", "other.example"}
	results := CheckAll(context.Background(), hosts, 2, time.Second, check)

	if n := calls.Load(); n != 3 {
		t.Fatalf("calls = %d, want 3", n)
	}
	if p := peak.Load(); p > 2 {
		t.Fatalf("peak = %d, want <= 2", p)
	}
	if !results["up.example"].Success || results["down.example"].Success {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestCheckUnresolvableHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res := Check(ctx, "host.invalid", time.Second)
	if res.Success || res.Error == nil {
		t.Fatalf("expected DNS failure, got %+v", res)
	}
}
