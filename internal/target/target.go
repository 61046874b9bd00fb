package target

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort 默认端口（Minecraft 服务器端口）
const DefaultPort = 25565

// ParseError 目标格式错误，仅影响该目标
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("无效的目标格式 %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Target 探测目标 (host, port)
type Target struct {
	Raw  string // 原始字符串
	Host string
	Port int
	Err  error // 解析失败时非空，类型为 *ParseError
}

// Parse 解析 "host" 或 "host:port"
// 解析失败不会返回错误，而是记录在 Target.Err 中，由探针直接判定为全部失败
func Parse(raw string, defaultPort int) Target {
	t := Target{Raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		t.Err = &ParseError{Raw: raw, Err: errors.New("空目标")}
		return t
	}

	host, portStr := s, ""
	switch {
	case strings.HasPrefix(s, "["):
		// [IPv6]:port 或 [IPv6]
		if h, p, err := net.SplitHostPort(s); err == nil {
			host, portStr = h, p
		} else if strings.HasSuffix(s, "]") {
			host = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		} else {
			t.Err = &ParseError{Raw: raw, Err: err}
			return t
		}
	case strings.Count(s, ":") > 1 && net.ParseIP(s) != nil:
		// 未加括号的 IPv6 字面量，使用默认端口
	case strings.Contains(s, ":"):
		host, portStr, _ = strings.Cut(s, ":")
	}

	if host == "" {
		t.Err = &ParseError{Raw: raw, Err: errors.New("主机为空")}
		return t
	}
	t.Host = host
	t.Port = defaultPort

	if portStr != "" || strings.HasSuffix(s, ":") {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			t.Err = &ParseError{Raw: raw, Err: fmt.Errorf("端口无效: %w", err)}
			return t
		}
		if port < 1 || port > 65535 {
			t.Err = &ParseError{Raw: raw, Err: fmt.Errorf("端口超出范围: %d", port)}
			return t
		}
		t.Port = port
	}
	return t
}

// ParseAll 按顺序解析目标列表，不去重
func ParseAll(raws []string, defaultPort int) []Target {
	targets := make([]Target, 0, len(raws))
	for _, raw := range raws {
		targets = append(targets, Parse(raw, defaultPort))
	}
	return targets
}

// Valid 目标是否可用于网络探测
func (t Target) Valid() bool {
	return t.Err == nil
}

// Address 返回可拨号的地址
func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// String 返回原始目标字符串，用于展示与导出
func (t Target) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return t.Address()
}
