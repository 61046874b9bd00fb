package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"serverprobe/internal/probe"
)

// Meta 结果文件头信息
type Meta struct {
	Title     string
	Signature string
	Trials    int
	TestedAt  time.Time
}

// Entry 排名中的一条记录
type Entry struct {
	Rank       int     `json:"rank"`
	Target     string  `json:"target"`
	AvgLatency float64 `json:"avg_latency_ms"`
	MinLatency float64 `json:"min_latency_ms"`
	LossRate   float64 `json:"loss_rate_percent"`
}

// Entries 将排名转换为导出记录，排名从1开始
func Entries(ranked []probe.TargetResult) []Entry {
	entries := make([]Entry, 0, len(ranked))
	for i, r := range ranked {
		entries = append(entries, Entry{
			Rank:       i + 1,
			Target:     r.Target.String(),
			AvgLatency: r.AvgLatency,
			MinLatency: r.MinLatency,
			LossRate:   r.LossRate,
		})
	}
	return entries
}

// FormatEntry 单行格式: "1. host: 平均延迟 10.0 ms, 最低延迟 9.5 ms, 丢包率 0.0%"
func FormatEntry(e Entry) string {
	return fmt.Sprintf("%d. %s: 平均延迟 %s ms, 最低延迟 %s ms, 丢包率 %s%%",
		e.Rank, e.Target, FormatNumber(e.AvgLatency), FormatNumber(e.MinLatency), FormatNumber(e.LossRate))
}

// FormatNumber 输出最短表示，整数保留一位小数 (10 -> "10.0")
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !math.IsInf(v, 0) && !math.IsNaN(v) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteRanked 写入排名结果
func WriteRanked(w io.Writer, ranked []probe.TargetResult, meta Meta) error {
	bw := bufio.NewWriter(w)
	title := meta.Title
	if title == "" {
		title = "Minecraft可用服务器列表"
	}
	fmt.Fprintf(bw, "# %s\n", title)
	fmt.Fprintf(bw, "# 测试时间: %s\n", meta.TestedAt.Format("2006-01-02 15:04:05"))
	if meta.Signature != "" {
		fmt.Fprintf(bw, "# 签名: %s\n", meta.Signature)
	}
	fmt.Fprintf(bw, "# 每个服务器测试次数: %d\n\n", meta.Trials)

	for _, e := range Entries(ranked) {
		fmt.Fprintln(bw, FormatEntry(e))
	}
	return bw.Flush()
}

// FileName 结果文件名 mc_servers_YYYYMMDD_HHMMSS.txt
func FileName(t time.Time) string {
	return fmt.Sprintf("mc_servers_%s.txt", t.Format("20060102_150405"))
}

// Save 将排名写入 dir 下的结果文件，返回文件路径
func Save(dir string, ranked []probe.TargetResult, meta Meta) (string, error) {
	if meta.TestedAt.IsZero() {
		meta.TestedAt = time.Now()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建结果目录失败: %w", err)
	}

	path := filepath.Join(dir, FileName(meta.TestedAt))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建结果文件失败: %w", err)
	}
	defer f.Close()

	if err := WriteRanked(f, ranked, meta); err != nil {
		return "", fmt.Errorf("写入结果文件失败: %w", err)
	}
	return path, f.Close()
}
