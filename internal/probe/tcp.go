package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"serverprobe/internal/logger"
	"serverprobe/internal/target"
)

// LegacyPing Minecraft 旧版服务器列表 ping
var LegacyPing = []byte{0xFE, 0x01}

// Dialer 建立 TCP 连接
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options TCP 探针参数
type Options struct {
	Timeout        time.Duration // 单次连接超时
	Delay          time.Duration // 两次测试之间的间隔
	Payload        []byte        // 连接成功后发送的数据，为空则不发送
	PayloadTimeout time.Duration // 发送/读取 Payload 的超时
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		Timeout:        3 * time.Second,
		Delay:          100 * time.Millisecond,
		Payload:        LegacyPing,
		PayloadTimeout: 500 * time.Millisecond,
	}
}

// TCPChecker TCP连接探针
type TCPChecker struct {
	dialer Dialer
	opts   Options
}

// NewTCPChecker 创建TCP探针
func NewTCPChecker(opts Options) *TCPChecker {
	return &TCPChecker{
		dialer: &net.Dialer{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// WithDialer 替换拨号器（测试用）
func (c *TCPChecker) WithDialer(d Dialer) *TCPChecker {
	c.dialer = d
	return c
}

// Probe 顺序执行 trials 次连接测试，每次测试无论前一次结果如何都会执行
func (c *TCPChecker) Probe(ctx context.Context, t target.Target, trials int) (res TargetResult) {
	if !t.Valid() {
		return Failed(t, trials, t.Err)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("测试 %s 时发生未预期的错误: %v", t, r)
			res = Failed(t, trials, fmt.Errorf("未预期的错误: %v", r))
		}
	}()

	outcomes := make([]TrialOutcome, 0, trials)
	for i := 0; i < trials; i++ {
		outcome := c.Check(ctx, t)
		outcomes = append(outcomes, outcome)
		if outcome.Success {
			logger.Debugf("%s 第 %d/%d 次连接成功: %.2f ms", t, i+1, trials, outcome.Latency)
		} else {
			logger.Debugf("%s 第 %d/%d 次连接失败: %v", t, i+1, trials, outcome.Err)
		}

		// 避免过于频繁的请求，最后一次之后不再等待
		if i < trials-1 {
			if err := sleep(ctx, c.opts.Delay); err != nil {
				for j := i + 1; j < trials; j++ {
					outcomes = append(outcomes, Failure(err))
				}
				break
			}
		}
	}

	return Aggregate(t, outcomes)
}

// Check 执行一次连接测试，延迟只计算到 TCP 握手完成
func (c *TCPChecker) Check(ctx context.Context, t target.Target) TrialOutcome {
	if !t.Valid() {
		return Failure(t.Err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	conn, err := c.dialer.DialContext(dialCtx, "tcp", t.Address())
	latency := time.Since(start)
	if err != nil {
		return Failure(fmt.Errorf("TCP连接失败: %w", err))
	}
	defer conn.Close()

	c.exchange(conn)
	return Success(latency)
}

// exchange 发送 Payload 并尝试读取响应，结果不影响测试成败
func (c *TCPChecker) exchange(conn net.Conn) {
	if len(c.opts.Payload) == 0 {
		return
	}
	timeout := c.opts.PayloadTimeout
	if timeout <= 0 {
		timeout = c.opts.Timeout
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return
	}
	if _, err := conn.Write(c.opts.Payload); err != nil {
		return
	}
	buf := make([]byte, 1024)
	_, _ = conn.Read(buf)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
