package failover

import (
	"context"
	"errors"
	"fmt"

	"serverprobe/internal/logger"
	"serverprobe/internal/probe"
)

// ErrAlreadyCurrent 记录已指向目标地址
var ErrAlreadyCurrent = errors.New("目标地址与当前地址相同，无需切换")

// dnsClient DNS 记录读写
type dnsClient interface {
	GetCurrentTarget(ctx context.Context, domain string) (string, error)
	UpdateDNSRecord(ctx context.Context, domain, target string) error
}

// Switcher 域名切换器
type Switcher struct {
	client   dnsClient
	selector *Selector
	retry    int
}

// NewSwitcher 创建域名切换器
func NewSwitcher(client dnsClient, selector *Selector, retry int) *Switcher {
	if retry <= 0 {
		retry = 1
	}
	return &Switcher{
		client:   client,
		selector: selector,
		retry:    retry,
	}
}

// SwitchDomain 切换域名到新地址
func (s *Switcher) SwitchDomain(ctx context.Context, domain, targetAddress string) error {
	logger.Infof("开始切换域名: %s -> %s", domain, targetAddress)

	currentAddress, err := s.client.GetCurrentTarget(ctx, domain)
	if err != nil {
		logger.Errorf("获取当前DNS记录失败: %v", err)
		return fmt.Errorf("获取当前DNS记录失败: %w", err)
	}

	if currentAddress == targetAddress {
		logger.Info(ErrAlreadyCurrent.Error())
		return ErrAlreadyCurrent
	}

	var lastErr error
	for i := 0; i < s.retry; i++ {
		if i > 0 {
			logger.Warnf("重试切换 (%d/%d)", i+1, s.retry)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = s.client.UpdateDNSRecord(ctx, domain, targetAddress); lastErr == nil {
			logger.Infof("✓ DNS记录更新成功: %s: %s -> %s", domain, currentAddress, targetAddress)
			return nil
		}
		logger.Errorf("DNS记录更新失败: %v", lastErr)
	}

	logger.Errorf("切换记录: %s: %s -> %s (失败: %v)", domain, currentAddress, targetAddress, lastErr)
	return fmt.Errorf("DNS更新失败（已重试%d次）: %w", s.retry, lastErr)
}

// Publish 将排名最靠前的可发布服务器写入 DNS 记录
// 返回被选中的服务器；记录已是该地址时返回 ErrAlreadyCurrent
func (s *Switcher) Publish(ctx context.Context, domain string, ranked []probe.TargetResult) (probe.TargetResult, error) {
	best, err := s.selector.SelectBest(ranked)
	if err != nil {
		logger.Warnf("选择发布地址失败: %v", err)
		return probe.TargetResult{}, err
	}
	return best, s.SwitchDomain(ctx, domain, best.Target.Host)
}
