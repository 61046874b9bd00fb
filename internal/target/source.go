package target

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"serverprobe/internal/logger"
)

// Source 目标列表来源
type Source interface {
	Load() ([]string, error)
}

// StaticSource 固定目标列表
type StaticSource []string

// Load 返回列表副本
func (s StaticSource) Load() ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// DefaultSource 内置默认目标列表
func DefaultSource() Source {
	return StaticSource(defaultTargets)
}

// FileSource 从文件读取目标，文件不存在、为空或读取失败时回退到 Fallback
type FileSource struct {
	Path     string
	Fallback Source
}

// Load 加载目标列表
func (s FileSource) Load() ([]string, error) {
	targets, err := ReadFile(s.Path)
	switch {
	case err == nil && len(targets) > 0:
		logger.Infof("从%s加载了 %d 个目标", s.Path, len(targets))
		return targets, nil
	case err != nil && !os.IsNotExist(err):
		logger.Warnf("读取%s时出错: %v", s.Path, err)
	}

	if s.Fallback == nil {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("目标文件为空: %s", s.Path)
	}

	targets, err = s.Fallback.Load()
	if err != nil {
		return nil, err
	}
	logger.Infof("使用默认目标列表，共 %d 个目标", len(targets))
	return targets, nil
}

// ReadFile 读取目标文件，去掉空白行，保留重复项
func ReadFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLines(b)
}

// ParseLines 按行拆分目标
func ParseLines(b []byte) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
