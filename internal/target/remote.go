package target

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// remoteList 远程目标列表的 JSON 格式
type remoteList struct {
	Targets []string `json:"targets"`
}

// RemoteSource 从 HTTP(S) 地址拉取目标列表
// 响应可以是 {"targets": [...]} 格式的 JSON，也可以是每行一个目标的纯文本
type RemoteSource struct {
	URL     string
	Timeout time.Duration
}

// Load 拉取远程目标列表
func (s RemoteSource) Load() ([]string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(s.URL)
	if err != nil {
		return nil, fmt.Errorf("请求远程目标列表失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("远程目标列表HTTP状态错误: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("读取远程目标列表失败: %w", err)
	}

	var targets []string
	if trimmed := strings.TrimSpace(string(body)); strings.HasPrefix(trimmed, "{") {
		var list remoteList
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("解析远程目标列表JSON失败: %w", err)
		}
		for _, t := range list.Targets {
			if t = strings.TrimSpace(t); t != "" {
				targets = append(targets, t)
			}
		}
	} else {
		targets, err = ParseLines(body)
		if err != nil {
			return nil, err
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("远程目标列表为空: %s", s.URL)
	}
	return targets, nil
}
