package monitor

import (
	"math"
	"testing"

	"serverprobe/internal/probe"
	"serverprobe/internal/target"
)

func result(host string, order int, loss, avg float64) probe.TargetResult {
	r := probe.TargetResult{
		Target:     target.Parse(host, target.DefaultPort),
		Trials:     3,
		Successes:  3,
		Reachable:  true,
		AvgLatency: avg,
		MinLatency: avg,
		LossRate:   loss,
		Order:      order,
	}
	if loss == 100 {
		r.Successes, r.Reachable = 0, false
		r.AvgLatency, r.MinLatency = math.Inf(1), math.Inf(1)
	}
	return r
}

func TestRank(t *testing.T) {
	// 输入为完成顺序
	results := []probe.TargetResult{
		result("slow-reliable", 4, 0, 200),
		result("fast-lossy", 0, 33.33, 5),
		result("dead", 1, 100, 0),
		result("fast-reliable", 3, 0, 20),
		result("tie-late", 5, 0, 20),
		result("tie-early", 2, 0, 20),
	}

	ranked := Rank(results)
	want := []string{"tie-early", "fast-reliable", "tie-late", "slow-reliable", "fast-lossy"}
	if len(ranked) != len(want) {
		t.Fatalf("got %d ranked, want %d", len(ranked), len(want))
	}
	for i, w := range want {
		if ranked[i].Target.Host != w {
			t.Errorf("rank %d = %s, want %s", i+1, ranked[i].Target.Host, w)
		}
	}

	for i := 1; i < len(ranked); i++ {
		a, b := ranked[i-1], ranked[i]
		if !(a.LossRate < b.LossRate || (a.LossRate == b.LossRate && a.AvgLatency <= b.AvgLatency)) {
			t.Errorf("order violated between %s and %s", a.Target, b.Target)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
	if got := Rank([]probe.TargetResult{result("dead", 0, 100, 0)}); len(got) != 0 {
		t.Fatalf("unreachable targets must be excluded, got %v", got)
	}
}
