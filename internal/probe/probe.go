package probe

import (
	"context"
	"math"
	"time"

	"serverprobe/internal/target"
)

// Prober 探针接口：对单个目标执行 trials 次连接测试并汇总
type Prober interface {
	Probe(ctx context.Context, t target.Target, trials int) TargetResult
}

// TrialOutcome 单次连接测试结果
type TrialOutcome struct {
	Success bool
	Latency float64 // 毫秒，仅 Success 时有效
	Err     error   // 失败原因
}

// Success 成功的测试
func Success(latency time.Duration) TrialOutcome {
	return TrialOutcome{Success: true, Latency: Milliseconds(latency)}
}

// Failure 失败的测试
func Failure(err error) TrialOutcome {
	return TrialOutcome{Err: err}
}

// TargetResult 单个目标的汇总结果，创建后不再修改
type TargetResult struct {
	Target     target.Target
	Trials     int
	Successes  int
	Reachable  bool
	AvgLatency float64 // 毫秒，不可达时为 +Inf
	MinLatency float64 // 毫秒，不可达时为 +Inf
	LossRate   float64 // 百分比，保留两位小数
	TimedOut   bool    // 任务超过总超时被放弃
	LastError  string  // 最后一次失败原因
	Order      int     // 在输入列表中的位置
}

// Aggregate 汇总所有测试结果
func Aggregate(t target.Target, outcomes []TrialOutcome) TargetResult {
	res := TargetResult{
		Target:     t,
		Trials:     len(outcomes),
		AvgLatency: math.Inf(1),
		MinLatency: math.Inf(1),
		LossRate:   100,
	}

	var total float64
	for _, o := range outcomes {
		if !o.Success {
			if o.Err != nil {
				res.LastError = o.Err.Error()
			}
			continue
		}
		res.Successes++
		total += o.Latency
		if o.Latency < res.MinLatency {
			res.MinLatency = o.Latency
		}
	}

	if res.Trials == 0 {
		return res
	}
	res.LossRate = round2((1 - float64(res.Successes)/float64(res.Trials)) * 100)
	if res.Successes > 0 {
		res.Reachable = true
		res.AvgLatency = round2(total / float64(res.Successes))
	}
	return res
}

// Failed 构造全部失败的结果
func Failed(t target.Target, trials int, err error) TargetResult {
	res := TargetResult{
		Target:     t,
		Trials:     trials,
		AvgLatency: math.Inf(1),
		MinLatency: math.Inf(1),
		LossRate:   100,
	}
	if err != nil {
		res.LastError = err.Error()
	}
	return res
}

// Milliseconds 转换为毫秒并保留两位小数
func Milliseconds(d time.Duration) float64 {
	return round2(float64(d) / float64(time.Millisecond))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
