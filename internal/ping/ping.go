package ping

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	goping "github.com/go-ping/ping"
	"golang.org/x/sync/errgroup"

	"serverprobe/internal/logger"
)

// Result Ping检测结果
type Result struct {
	Host    string
	Success bool          // 是否收到回应
	Latency time.Duration // 平均延迟
	Error   error         // 错误信息
}

// Checker 执行单个主机的 ICMP 检测
type Checker func(ctx context.Context, host string, timeout time.Duration) *Result

// Check 执行ICMP ping检测
func Check(ctx context.Context, host string, timeout time.Duration) *Result {
	result := &Result{Host: host}

	// 如果是域名，先使用系统 DNS 解析
	ipAddr := host
	if net.ParseIP(host) == nil {
		ips, err := net.DefaultResolver.LookupHost(ctx, host)
		if err != nil {
			result.Error = fmt.Errorf("DNS解析失败 (%s): %w", host, err)
			return result
		}
		if len(ips) == 0 {
			result.Error = fmt.Errorf("DNS解析未返回IP地址: %s", host)
			return result
		}
		ipAddr = ips[0]
	}

	pinger, err := goping.NewPinger(ipAddr)
	if err != nil {
		result.Error = fmt.Errorf("创建pinger失败: %w", err)
		return result
	}

	// Linux系统使用特权模式（ICMP）
	pinger.SetPrivileged(true)
	pinger.Count = 3
	pinger.Timeout = timeout
	pinger.Interval = 300 * time.Millisecond

	stop := context.AfterFunc(ctx, pinger.Stop)
	defer stop()

	if err := pinger.Run(); err != nil {
		result.Error = fmt.Errorf("执行ping失败: %w", err)
		return result
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		result.Success = true
		result.Latency = stats.AvgRtt
	} else {
		result.Error = fmt.Errorf("ICMP应答超时 (发送: %d, 接收: %d, 丢包率: %.0f%%)",
			stats.PacketsSent, stats.PacketsRecv, stats.PacketLoss)
	}
	return result
}

// CheckAll 以有限并发检测多个主机，重复的主机只检测一次
func CheckAll(ctx context.Context, hosts []string, workers int, timeout time.Duration, check Checker) map[string]*Result {
	if check == nil {
		check = Check
	}
	if workers <= 0 {
		workers = 1
	}

	results := make(map[string]*Result)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	seen := make(map[string]bool)
	for _, host := range hosts {
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		h := host
		g.Go(func() error {
			res := check(ctx, h, timeout)
			if res.Success {
				logger.Infof("ICMP诊断: %s 主机在线 (延迟: %v)，端口不可达", h, res.Latency)
			} else {
				logger.Infof("ICMP诊断: %s 无应答: %v", h, res.Error)
			}
			mu.Lock()
			results[h] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
