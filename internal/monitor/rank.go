package monitor

import (
	"sort"

	"serverprobe/internal/probe"
)

// Rank 筛选可达目标，先按丢包率、再按平均延迟升序排序
// 两项都相同时按 Order（目标在输入列表中的位置）排序，而不是按完成顺序，
// 因此同样的输入总是得到同样的排名
func Rank(results []probe.TargetResult) []probe.TargetResult {
	ranked := make([]probe.TargetResult, 0, len(results))
	for _, r := range results {
		if r.Reachable {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.LossRate != b.LossRate {
			return a.LossRate < b.LossRate
		}
		if a.AvgLatency != b.AvgLatency {
			return a.AvgLatency < b.AvgLatency
		}
		return a.Order < b.Order
	})
	return ranked
}
