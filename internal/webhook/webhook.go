package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"serverprobe/internal/config"
	"serverprobe/internal/logger"
	"serverprobe/internal/report"
)

// EventProbeReport 事件类型
const EventProbeReport = "probe_report"

// Payload 运行结果通知内容
type Payload struct {
	Event     string         `json:"event"`
	Total     int            `json:"total"`     // 目标总数
	Reachable int            `json:"reachable"` // 可用目标数
	ElapsedMs int64          `json:"elapsed_ms"`
	Ranked    []report.Entry `json:"ranked"`
	Timestamp int64          `json:"timestamp"`
	Message   string         `json:"message"` // 可读消息
}

// Client Webhook 客户端
type Client struct {
	cfg        *config.WebhookConfig
	httpClient *http.Client
}

// NewClient 创建 Webhook 客户端
func NewClient(cfg *config.WebhookConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewPayload 构造通知内容
func NewPayload(total int, ranked []report.Entry, elapsed time.Duration) *Payload {
	p := &Payload{
		Event:     EventProbeReport,
		Total:     total,
		Reachable: len(ranked),
		ElapsedMs: elapsed.Milliseconds(),
		Ranked:    ranked,
		Timestamp: time.Now().Unix(),
	}
	if p.Ranked == nil {
		p.Ranked = []report.Entry{}
	}
	if len(ranked) > 0 {
		best := ranked[0]
		p.Message = fmt.Sprintf("可用服务器 %d/%d，推荐: %s (平均延迟 %s ms, 丢包率 %s%%)",
			p.Reachable, total, best.Target, report.FormatNumber(best.AvgLatency), report.FormatNumber(best.LossRate))
	} else {
		p.Message = fmt.Sprintf("未找到可用服务器 (0/%d)", total)
	}
	return p
}

// Send 发送通知
func (c *Client) Send(ctx context.Context, payload *Payload) error {
	if c.cfg.URL == "" {
		logger.Warn("[WEBHOOK] URL 未配置，跳过通知")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化通知失败: %w", err)
	}

	method := c.cfg.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.cfg.Headers {
		req.Header.Set(key, value)
	}

	logger.Infof("[WEBHOOK] 发送通知: %s %s", method, c.cfg.URL)
	logger.Debugf("[WEBHOOK] Body: %s", string(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Errorf("[WEBHOOK] ✗ 发送失败: %v", err)
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warnf("[WEBHOOK] 响应状态码异常: %d", resp.StatusCode)
		return fmt.Errorf("响应状态码异常: %d", resp.StatusCode)
	}

	logger.Infof("[WEBHOOK] ✓ 通知发送成功 (状态码: %d)", resp.StatusCode)
	return nil
}
