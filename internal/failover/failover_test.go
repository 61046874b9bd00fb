package failover

import (
	"context"
	"errors"
	"testing"

	"serverprobe/internal/probe"
	"serverprobe/internal/target"
)

func result(raw string, loss, avg float64) probe.TargetResult {
	return probe.TargetResult{
		Target:     target.Parse(raw, target.DefaultPort),
		Trials:     3,
		Reachable:  loss < 100,
		LossRate:   loss,
		AvgLatency: avg,
	}
}

type fakeDNS struct {
	current  string
	failures int
	updates  []string
	getErr   error
}

func (f *fakeDNS) GetCurrentTarget(ctx context.Context, domain string) (string, error) {
	return f.current, f.getErr
}

func (f *fakeDNS) UpdateDNSRecord(ctx context.Context, domain, target string) error {
	f.updates = append(f.updates, target)
	if f.failures > 0 {
		f.failures--
		return errors.New("api unavailable")
	}
	f.current = target
	return nil
}

func TestSelector(t *testing.T) {
	ranked := []probe.TargetResult{
		result("alt.example:25566", 0, 5),
		result("lossy.example", 33.33, 8),
		result("good.example", 0, 12),
		result("other.example", 0, 20),
	}

	t.Run("skips non-default port and lossy", func(t *testing.T) {
		got, err := NewSelector(target.DefaultPort, 0).SelectBest(ranked)
		if err != nil {
			t.Fatal(err)
		}
		if got.Target.Host != "good.example" {
			t.Fatalf("selected %s", got.Target)
		}
	})

	t.Run("loss threshold", func(t *testing.T) {
		got, err := NewSelector(target.DefaultPort, 50).SelectBest(ranked)
		if err != nil {
			t.Fatal(err)
		}
		if got.Target.Host != "lossy.example" {
			t.Fatalf("selected %s", got.Target)
		}
	})

	t.Run("excluding", func(t *testing.T) {
		got, err := NewSelector(target.DefaultPort, 0).SelectExcluding(ranked, "good.example")
		if err != nil {
			t.Fatal(err)
		}
		if got.Target.Host != "other.example" {
			t.Fatalf("selected %s", got.Target)
		}
	})

	t.Run("none eligible", func(t *testing.T) {
		if _, err := NewSelector(25570, 0).SelectBest(ranked); err == nil {
			t.Fatal("expected error")
		}
		if _, err := NewSelector(target.DefaultPort, 0).SelectBest(nil); err == nil {
			t.Fatal("expected error for empty list")
		}
	})
}

func TestPublish(t *testing.T) {
	ranked := []probe.TargetResult{result("good.example", 0, 12)}
	ctx := context.Background()

	t.Run("updates record", func(t *testing.T) {
		dns := &fakeDNS{current: "old.example"}
		best, err := NewSwitcher(dns, NewSelector(target.DefaultPort, 0), 3).Publish(ctx, "mc.example.com", ranked)
		if err != nil {
			t.Fatal(err)
		}
		if best.Target.Host != "good.example" || dns.current != "good.example" || len(dns.updates) != 1 {
			t.Fatalf("best=%s dns=%+v", best.Target, dns)
		}
	})

	t.Run("already current", func(t *testing.T) {
		dns := &fakeDNS{current: "good.example"}
		_, err := NewSwitcher(dns, NewSelector(target.DefaultPort, 0), 3).Publish(ctx, "mc.example.com", ranked)
		if !errors.Is(err, ErrAlreadyCurrent) {
			t.Fatalf("err = %v", err)
		}
		if len(dns.updates) != 0 {
			t.Fatalf("unexpected updates %v", dns.updates)
		}
	})

	t.Run("retries", func(t *testing.T) {
		dns := &fakeDNS{current: "old.example", failures: 2}
		if err := NewSwitcher(dns, NewSelector(target.DefaultPort, 0), 3).SwitchDomain(ctx, "mc.example.com", "good.example"); err != nil {
			t.Fatal(err)
		}
		if len(dns.updates) != 3 {
			t.Fatalf("updates = %d, want 3", len(dns.updates))
		}
	})

	t.Run("gives up", func(t *testing.T) {
		dns := &fakeDNS{current: "old.example", failures: 5}
		if err := NewSwitcher(dns, NewSelector(target.DefaultPort, 0), 2).SwitchDomain(ctx, "mc.example.com", "good.example"); err == nil {
			t.Fatal("expected error")
		}
		if len(dns.updates) != 2 || dns.current != "old.example" {
			t.Fatalf("dns = %+v", dns)
		}
	})

	t.Run("lookup error", func(t *testing.T) {
		dns := &fakeDNS{getErr: errors.New("no record")}
		if err := NewSwitcher(dns, NewSelector(target.DefaultPort, 0), 1).SwitchDomain(ctx, "mc.example.com", "good.example"); err == nil {
			t.Fatal("expected error")
		}
	})
}
