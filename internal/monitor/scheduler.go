package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"serverprobe/internal/logger"
	"serverprobe/internal/probe"
	"serverprobe/internal/target"
)

// DefaultTaskMargin 任务总超时的额外余量，覆盖调度与测试间隔的开销
const DefaultTaskMargin = 10 * time.Second

var (
	// ErrTaskTimeout 任务超过总超时
	ErrTaskTimeout = errors.New("测试超时")
	// ErrRunCancelled 整个运行被取消（例如收到中断信号）
	ErrRunCancelled = errors.New("测试已取消")
)

// Options 调度参数
type Options struct {
	Workers      int           // 同时执行的任务数
	Trials       int           // 每个目标的测试次数
	TrialTimeout time.Duration // 单次连接超时
	Margin       time.Duration // 任务总超时余量

	// OnResult 每个任务结束时按完成顺序调用，调用之间是串行的
	OnResult func(res probe.TargetResult, done, total int)
}

func (o Options) validate() error {
	if o.Workers <= 0 {
		return errors.New("并行数必须大于0")
	}
	if o.Trials <= 0 {
		return errors.New("测试次数必须大于0")
	}
	if o.TrialTimeout <= 0 {
		return errors.New("超时时间必须大于0")
	}
	return nil
}

// TaskTimeout 单个目标的总超时: 单次超时 × 测试次数 + 余量
func (o Options) TaskTimeout() time.Duration {
	margin := o.Margin
	if margin <= 0 {
		margin = DefaultTaskMargin
	}
	return o.TrialTimeout*time.Duration(o.Trials) + margin
}

// Report 一次运行的结果
type Report struct {
	Results []probe.TargetResult // 全部结果，按完成顺序
	Ranked  []probe.TargetResult // 可达目标排名
	Elapsed time.Duration
}

// Scheduler 探测调度器：有界并发地对所有目标执行探针
type Scheduler struct {
	prober       probe.Prober
	opts         Options
	stateManager *StateManager
}

// NewScheduler 创建调度器
func NewScheduler(prober probe.Prober, opts Options) (*Scheduler, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		prober:       prober,
		opts:         opts,
		stateManager: NewStateManager(),
	}, nil
}

// States 任务状态
func (s *Scheduler) States() *StateManager {
	return s.stateManager
}

// Run 对所有目标执行探测，收集全部结果后排名
// 每个输入目标恰好产生一个结果，单个目标的异常不会影响其他目标
func (s *Scheduler) Run(ctx context.Context, targets []target.Target) *Report {
	startTime := time.Now()
	total := len(targets)
	logger.Infof("开始测试 %d 个服务器 (并行数: %d, 测试次数: %d, 任务超时: %v)",
		total, s.opts.Workers, s.opts.Trials, s.opts.TaskTimeout())

	for i, t := range targets {
		s.stateManager.InitTask(i, t.String())
	}

	resultChan := make(chan probe.TargetResult)

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	go func() {
		for i, t := range targets {
			order, tgt := i, t
			g.Go(func() error {
				resultChan <- s.runTask(ctx, order, tgt)
				return nil
			})
		}
		_ = g.Wait()
		close(resultChan)
	}()

	results := make([]probe.TargetResult, 0, total)
	for res := range resultChan {
		results = append(results, res)
		if res.Reachable {
			logger.Infof("✓ %s: 可用 (平均延迟: %.2f ms, 最低延迟: %.2f ms, 丢包率: %.2f%%)",
				res.Target, res.AvgLatency, res.MinLatency, res.LossRate)
		} else {
			logger.Infof("✗ %s: 不可用 (丢包率: %.2f%%) %s", res.Target, res.LossRate, res.LastError)
		}
		if s.opts.OnResult != nil {
			s.opts.OnResult(res, len(results), total)
		}
	}

	report := &Report{
		Results: results,
		Ranked:  Rank(results),
		Elapsed: time.Since(startTime),
	}
	logger.Infof("测试完成，耗时: %.2f秒，可用服务器: %d/%d",
		report.Elapsed.Seconds(), len(report.Ranked), total)
	return report
}

// runTask 执行单个目标的探测，超过总超时则放弃并判定为全部失败
func (s *Scheduler) runTask(ctx context.Context, order int, t target.Target) probe.TargetResult {
	// 运行已被取消时，排队中的任务不再探测
	if ctx.Err() != nil {
		return s.cancelled(order, t)
	}
	s.stateManager.MarkRunning(order)

	taskCtx, cancel := context.WithTimeout(ctx, s.opts.TaskTimeout())
	defer cancel()

	// 缓冲为1，被放弃的探测结束后不会阻塞
	done := make(chan probe.TargetResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("处理测试结果时出错: %s: %v", t, r)
				done <- probe.Failed(t, s.opts.Trials, fmt.Errorf("未预期的错误: %v", r))
			}
		}()
		done <- s.prober.Probe(taskCtx, t, s.opts.Trials)
	}()

	select {
	case res := <-done:
		s.stateManager.MarkDone(order, StatusCompleted)
		res.Order = order
		return res
	case <-taskCtx.Done():
		if ctx.Err() != nil {
			return s.cancelled(order, t)
		}
		s.stateManager.MarkDone(order, StatusTimedOut)
		logger.Warnf("测试 %s 超时", t)
		res := probe.Failed(t, s.opts.Trials, ErrTaskTimeout)
		res.TimedOut = true
		res.Order = order
		return res
	}
}

func (s *Scheduler) cancelled(order int, t target.Target) probe.TargetResult {
	s.stateManager.MarkDone(order, StatusCancelled)
	res := probe.Failed(t, s.opts.Trials, ErrRunCancelled)
	res.Order = order
	return res
}

// RunOnce 解析原始目标字符串并执行一次探测
func (s *Scheduler) RunOnce(ctx context.Context, raws []string, defaultPort int) *Report {
	return s.Run(ctx, target.ParseAll(raws, defaultPort))
}
