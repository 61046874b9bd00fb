package failover

import (
	"fmt"

	"serverprobe/internal/logger"
	"serverprobe/internal/probe"
)

// Selector 从排序结果中选择可发布的服务器
type Selector struct {
	defaultPort int
	maxLoss     float64
}

// NewSelector 创建选择器
// DNS 记录无法携带端口，只有使用默认端口的服务器可以发布
func NewSelector(defaultPort int, maxLoss float64) *Selector {
	return &Selector{
		defaultPort: defaultPort,
		maxLoss:     maxLoss,
	}
}

// SelectBest 返回排名最靠前的可发布服务器
func (s *Selector) SelectBest(ranked []probe.TargetResult) (probe.TargetResult, error) {
	return s.SelectExcluding(ranked, "")
}

// SelectExcluding 选择可发布服务器（排除指定主机）
func (s *Selector) SelectExcluding(ranked []probe.TargetResult, excludeHost string) (probe.TargetResult, error) {
	if len(ranked) == 0 {
		return probe.TargetResult{}, fmt.Errorf("没有可用的服务器")
	}

	for _, res := range ranked {
		t := res.Target
		switch {
		case !res.Reachable:
			continue
		case excludeHost != "" && t.Host == excludeHost:
			logger.Infof("跳过当前地址: %s", t.Host)
		case t.Port != s.defaultPort:
			logger.Debugf("跳过非默认端口服务器: %s", t)
		case res.LossRate > s.maxLoss:
			logger.Debugf("跳过丢包率过高的服务器: %s (%.2f%%)", t, res.LossRate)
		default:
			logger.Infof("✓ 选择服务器: %s (平均延迟: %.2f ms)", t, res.AvgLatency)
			return res, nil
		}
	}

	return probe.TargetResult{}, fmt.Errorf("没有符合发布条件的服务器 (端口 %d, 丢包率 ≤ %.2f%%)", s.defaultPort, s.maxLoss)
}
