package cmd

import (
	"fmt"
	"sync"

	"serverprobe/internal/config"
	"serverprobe/internal/logger"
)

var (
	globalConfig *config.Config
	initOnce     sync.Once
	initError    error
)

// InitSystem 加载配置并初始化日志，只执行一次
func InitSystem() error {
	initOnce.Do(func() {
		cfg, err := config.LoadFile(envFile)
		if err != nil {
			initError = fmt.Errorf("加载配置失败: %w", err)
			return
		}
		globalConfig = cfg

		// 根据配置决定是否启用文件日志
		if cfg.Log.Enabled {
			if err := logger.Init(cfg.Log.Level, cfg.Log.Path, cfg.Log.MaxDays); err != nil {
				initError = fmt.Errorf("日志初始化失败: %w", err)
				return
			}
		} else {
			logger.InitConsoleOnly(cfg.Log.Level)
		}
		logger.Info("程序启动")
		logger.Infof("配置: 端口 %d, 并行数 %d, 测试次数 %d, 超时 %v",
			cfg.Probe.DefaultPort, cfg.Probe.Workers, cfg.Probe.Trials, cfg.Probe.Timeout)
	})
	return initError
}

// GetConfig 获取已加载的配置
func GetConfig() *config.Config {
	return globalConfig
}
