package cloudflare

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudflare/cloudflare-go"
)

// Client Cloudflare客户端封装
type Client struct {
	api *cloudflare.API
}

// NewClient 创建Cloudflare客户端（仅支持API Token）
func NewClient(apiToken string, opts ...cloudflare.Option) (*Client, error) {
	api, err := cloudflare.NewWithAPIToken(apiToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建Cloudflare API客户端失败: %w", err)
	}
	return &Client{api: api}, nil
}

// VerifyCredentials 验证API Token
func (c *Client) VerifyCredentials(ctx context.Context) error {
	result, err := c.api.VerifyAPIToken(ctx)
	if err != nil {
		return fmt.Errorf("验证Cloudflare凭证失败: %w", err)
	}
	if result.Status != "active" {
		return fmt.Errorf("API Token状态异常: %s", result.Status)
	}
	return nil
}

// GetZoneID 获取域名的Zone ID
func (c *Client) GetZoneID(domain string) (string, error) {
	zoneName := extractRootDomain(domain)

	zoneID, err := c.api.ZoneIDByName(zoneName)
	if err != nil {
		return "", fmt.Errorf("获取Zone ID失败 (域名: %s): %w", zoneName, err)
	}
	return zoneID, nil
}

// extractRootDomain 取最后两级作为根域名
// 例如: play.example.com -> example.com
func extractRootDomain(domain string) string {
	domain = strings.TrimSuffix(domain, ".")
	labels := strings.Split(domain, ".")
	if len(labels) <= 2 {
		return domain
	}
	return strings.Join(labels[len(labels)-2:], ".")
}
