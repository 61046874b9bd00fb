package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"serverprobe/internal/cloudflare"
	"serverprobe/internal/config"
	"serverprobe/internal/failover"
	"serverprobe/internal/logger"
	"serverprobe/internal/monitor"
	"serverprobe/internal/ping"
	"serverprobe/internal/probe"
	"serverprobe/internal/report"
	"serverprobe/internal/storage"
	"serverprobe/internal/target"
	"serverprobe/internal/webhook"
)

var (
	flagWorkers  int
	flagTrials   int
	flagTimeout  float64
	flagPort     int
	flagTargets  string
	flagNoExport bool
	flagPause    bool

	probeCmd = &cobra.Command{
		Use:   "probe",
		Short: "测试服务器连通性",
		Long:  "并行测试目标列表中的所有服务器，输出按丢包率和延迟排序的推荐列表，并保存结果文件",
		Run: func(cmd *cobra.Command, args []string) {
			if err := InitSystem(); err != nil {
				fmt.Fprintf(os.Stderr, "系统初始化失败: %v\n", err)
				os.Exit(1)
			}
			defer logger.Close()

			cfg := GetConfig()
			applyProbeFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "参数错误: %v\n", err)
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runProbe(ctx, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "程序执行过程中发生错误: %v\n", err)
				logger.Errorf("程序执行过程中发生错误: %v", err)
			}

			if flagPause {
				fmt.Print("\n按Enter键退出...")
				_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
			}
		},
	}
)

// applyProbeFlags 命令行参数覆盖配置文件
func applyProbeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Probe.Workers = flagWorkers
	}
	if flags.Changed("trials") {
		cfg.Probe.Trials = flagTrials
	}
	if flags.Changed("timeout") {
		cfg.Probe.Timeout = time.Duration(flagTimeout * float64(time.Second))
	}
	if flags.Changed("port") {
		cfg.Probe.DefaultPort = flagPort
	}
	if flags.Changed("targets") {
		cfg.Targets.File = flagTargets
		cfg.Targets.URL = ""
	}
}

// loadTargets 依次尝试远程列表、目标文件和内置列表
func loadTargets(cfg *config.Config) ([]string, error) {
	fileSource := target.FileSource{Path: cfg.Targets.File, Fallback: target.DefaultSource()}
	if cfg.Targets.URL != "" {
		targets, err := target.RemoteSource{URL: cfg.Targets.URL}.Load()
		if err == nil {
			logger.Infof("从远程地址加载了 %d 个目标", len(targets))
			return targets, nil
		}
		logger.Warnf("加载远程目标列表失败，改用本地列表: %v", err)
	}
	return fileSource.Load()
}

// newChecker 根据配置创建 TCP 探针
func newChecker(cfg *config.Config) *probe.TCPChecker {
	opts := probe.Options{
		Timeout:        cfg.Probe.Timeout,
		Delay:          cfg.Probe.TrialDelay,
		PayloadTimeout: cfg.Probe.PayloadTimeout,
	}
	if cfg.Probe.PayloadEnabled {
		opts.Payload = probe.LegacyPing
	}
	return probe.NewTCPChecker(opts)
}

func runProbe(ctx context.Context, cfg *config.Config) error {
	printBanner(cfg)

	raws, err := loadTargets(cfg)
	if err != nil {
		return fmt.Errorf("加载目标列表失败: %w", err)
	}
	fmt.Printf("已加载 %d 个服务器:\n", len(raws))
	for i, raw := range raws {
		fmt.Printf("  %d. %s\n", i+1, raw)
	}

	scheduler, err := monitor.NewScheduler(newChecker(cfg), monitor.Options{
		Workers:      cfg.Probe.Workers,
		Trials:       cfg.Probe.Trials,
		TrialTimeout: cfg.Probe.Timeout,
		Margin:       cfg.Probe.TaskMargin,
		OnResult:     printProgress,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n开始测试服务器连通性...\n%s\n\n", rule(30), rule(30))
	rep := scheduler.RunOnce(ctx, raws, cfg.Probe.DefaultPort)

	fmt.Printf("\n%s\n", rule(30))
	fmt.Printf("测试完成! 耗时: %.2f秒\n", rep.Elapsed.Seconds())
	fmt.Printf("可用服务器数量: %d/%d\n", len(rep.Ranked), len(rep.Results))
	fmt.Printf("%s\n\n", rule(30))

	if len(rep.Ranked) > 0 {
		fmt.Println("推荐服务器 (按丢包率和延迟排序):")
		for _, e := range report.Entries(rep.Ranked) {
			fmt.Printf("  %s\n", report.FormatEntry(e))
		}
		if !flagNoExport {
			exportResults(ctx, cfg, rep)
		}
	} else {
		fmt.Println("警告: 未找到可用服务器")
		logger.Warn("警告: 未找到可用服务器")
	}

	if cfg.ICMP.Enabled {
		diagnoseUnreachable(ctx, cfg, rep.Results)
	}
	if cfg.IsWebhookEnabled() {
		payload := webhook.NewPayload(len(rep.Results), report.Entries(rep.Ranked), rep.Elapsed)
		if err := webhook.NewClient(&cfg.Webhook).Send(ctx, payload); err != nil {
			fmt.Printf("警告: 发送通知失败: %v\n", err)
		}
	}
	if cfg.IsDNSEnabled() {
		publishBest(ctx, cfg, rep.Ranked)
	}

	fmt.Printf("\n%s\n", rule(50))
	if cfg.Signature != "" {
		fmt.Println(cfg.Signature)
	}
	fmt.Printf("生成时间: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(rule(50))
	logger.Info("程序正常结束")
	return nil
}

// printProgress 按完成顺序输出每个目标的结果
func printProgress(res probe.TargetResult, done, total int) {
	switch {
	case res.TimedOut:
		fmt.Printf("测试 %s 超时\n", res.Target)
	case res.Reachable:
		fmt.Printf("  ✓ %s: 可用 (平均延迟: %s ms, 最低延迟: %s ms, 丢包率: %s%%)\n",
			res.Target, report.FormatNumber(res.AvgLatency), report.FormatNumber(res.MinLatency), report.FormatNumber(res.LossRate))
	default:
		fmt.Printf("  ✗ %s: 不可用 (丢包率: %s%%)\n", res.Target, report.FormatNumber(res.LossRate))
	}
	fmt.Printf("进度: %d/%d\n", done, total)
}

// exportResults 保存结果文件，配置了 S3 时同时上传
func exportResults(ctx context.Context, cfg *config.Config, rep *monitor.Report) {
	path, err := report.Save(cfg.ResultDir, rep.Ranked, report.Meta{
		Signature: cfg.Signature,
		Trials:    cfg.Probe.Trials,
		TestedAt:  time.Now(),
	})
	if err != nil {
		logger.Errorf("保存结果时出错: %v", err)
		fmt.Println("\n警告: 保存结果失败")
		return
	}
	logger.Infof("结果已保存到: %s", path)
	fmt.Printf("\n结果已保存到: %s\n", path)

	if !cfg.IsS3Enabled() {
		return
	}
	uploader, err := storage.NewUploader(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint, cfg.S3.Prefix)
	if err != nil {
		logger.Errorf("创建S3客户端失败: %v", err)
		return
	}
	key, err := uploader.UploadFile(ctx, path)
	if err != nil {
		fmt.Printf("警告: 上传结果失败: %v\n", err)
		return
	}
	fmt.Printf("结果已上传到: s3://%s/%s\n", cfg.S3.Bucket, key)
}

// diagnoseUnreachable 对不可达目标做 ICMP 检测，区分主机离线和端口未开放
func diagnoseUnreachable(ctx context.Context, cfg *config.Config, results []probe.TargetResult) {
	var hosts []string
	for _, res := range results {
		if !res.Reachable && res.Target.Valid() {
			hosts = append(hosts, res.Target.Host)
		}
	}
	if len(hosts) == 0 {
		return
	}

	fmt.Println("\nICMP 诊断 (不可用服务器):")
	diag := ping.CheckAll(ctx, hosts, cfg.Probe.Workers, cfg.ICMP.Timeout, ping.Check)
	for _, res := range results {
		d, ok := diag[res.Target.Host]
		if res.Reachable || !ok {
			continue
		}
		if d.Success {
			fmt.Printf("  %s: 主机在线 (ICMP %.2f ms)，端口未响应\n", res.Target, probe.Milliseconds(d.Latency))
		} else {
			fmt.Printf("  %s: 主机无响应 (%v)\n", res.Target, d.Error)
		}
	}
}

// publishBest 将最佳服务器发布到 Cloudflare DNS 记录
func publishBest(ctx context.Context, cfg *config.Config, ranked []probe.TargetResult) {
	client, err := cloudflare.NewClient(cfg.DNS.APIToken)
	if err != nil {
		logger.Errorf("Cloudflare客户端失败: %v", err)
		return
	}
	if err := client.VerifyCredentials(ctx); err != nil {
		logger.Errorf("%v", err)
		fmt.Printf("警告: 发布DNS记录失败: %v\n", err)
		return
	}

	selector := failover.NewSelector(cfg.Probe.DefaultPort, cfg.DNS.MaxLoss)
	best, err := failover.NewSwitcher(client, selector, cfg.DNS.Retry).Publish(ctx, cfg.DNS.Record, ranked)
	switch {
	case errors.Is(err, failover.ErrAlreadyCurrent):
		fmt.Printf("DNS记录 %s 已指向 %s\n", cfg.DNS.Record, best.Target.Host)
	case err != nil:
		fmt.Printf("警告: 发布DNS记录失败: %v\n", err)
	default:
		fmt.Printf("DNS记录 %s 已更新为 %s\n", cfg.DNS.Record, best.Target.Host)
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("\n%s\n", rule(50))
	title := "Minecraft 服务器测试工具"
	if cfg.Signature != "" {
		title += " " + cfg.Signature
	}
	fmt.Println(title)
	fmt.Printf("测试端口: %d | 最大并行数: %d\n", cfg.Probe.DefaultPort, cfg.Probe.Workers)
	fmt.Printf("每个服务器测试次数: %d\n", cfg.Probe.Trials)
	fmt.Printf("%s\n\n", rule(50))
}

func rule(n int) string {
	return strings.Repeat("=", n)
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 3, "最大并行数")
	probeCmd.Flags().IntVarP(&flagTrials, "trials", "n", 3, "每个服务器的测试次数")
	probeCmd.Flags().Float64VarP(&flagTimeout, "timeout", "t", 3, "单次连接超时（秒）")
	probeCmd.Flags().IntVarP(&flagPort, "port", "p", target.DefaultPort, "默认端口")
	probeCmd.Flags().StringVarP(&flagTargets, "targets", "f", "targets.txt", "目标列表文件")
	probeCmd.Flags().BoolVar(&flagNoExport, "no-export", false, "不保存结果文件")
	probeCmd.Flags().BoolVar(&flagPause, "pause", false, "结束后等待回车再退出")
}
