package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 主配置结构
type Config struct {
	Probe     ProbeConfig
	Targets   TargetsConfig
	Webhook   WebhookConfig
	Log       LogConfig
	ICMP      ICMPConfig
	DNS       DNSConfig
	S3        S3Config
	ResultDir string // 结果文件目录
	Signature string // 写入结果文件头的签名
}

// ProbeConfig 探测配置
type ProbeConfig struct {
	Timeout        time.Duration // 单次连接超时
	DefaultPort    int
	Workers        int
	Trials         int
	TrialDelay     time.Duration // 测试间隔
	PayloadEnabled bool          // 连接成功后发送服务器列表 ping
	PayloadTimeout time.Duration
	TaskMargin     time.Duration // 任务总超时余量
}

// TargetsConfig 目标列表配置
type TargetsConfig struct {
	File string
	URL  string // 远程目标列表，优先于文件
}

// WebhookConfig Webhook 回调配置
type WebhookConfig struct {
	URL     string
	Method  string
	Headers map[string]string
	Timeout int
}

// LogConfig 日志配置
type LogConfig struct {
	Enabled bool
	Level   string
	Path    string
	MaxDays int
}

// ICMPConfig 不可达目标的 ICMP 诊断
type ICMPConfig struct {
	Enabled bool
	Timeout time.Duration
}

// DNSConfig Cloudflare DNS 发布配置
type DNSConfig struct {
	APIToken string
	Record   string  // 需要指向最佳服务器的域名
	MaxLoss  float64 // 可发布的最大丢包率
	Retry    int     // 更新失败重试次数
}

// S3Config 结果文件上传配置
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string
}

// Load 从 .env 文件和环境变量加载配置
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile 从指定的 env 文件和环境变量加载配置，文件不存在时只使用环境变量
// 已存在的环境变量优先于文件中的值
func LoadFile(envFile string) (*Config, error) {
	if envFile == "" {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	cfg := &Config{}

	// 探测配置
	cfg.Probe.Timeout = getEnvSeconds("PROBE_TIMEOUT", 3*time.Second)
	cfg.Probe.DefaultPort = getEnvInt("DEFAULT_PORT", 25565)
	cfg.Probe.Workers = getEnvInt("WORKERS", 3)
	cfg.Probe.Trials = getEnvInt("TRIALS", 3)
	cfg.Probe.TrialDelay = getEnvDuration("TRIAL_DELAY", 100*time.Millisecond)
	cfg.Probe.PayloadEnabled = getEnvBool("PAYLOAD_ENABLED", true)
	cfg.Probe.PayloadTimeout = getEnvDuration("PAYLOAD_TIMEOUT", 500*time.Millisecond)
	cfg.Probe.TaskMargin = getEnvDuration("TASK_MARGIN", 10*time.Second)

	cfg.Targets.File = getEnvString("TARGETS_FILE", "targets.txt")
	cfg.Targets.URL = os.Getenv("TARGETS_URL")
	cfg.ResultDir = getEnvString("RESULT_DIR", ".")
	cfg.Signature = os.Getenv("REPORT_SIGNATURE")

	// Webhook 配置
	cfg.Webhook.URL = os.Getenv("WEBHOOK_URL")
	cfg.Webhook.Method = getEnvString("WEBHOOK_METHOD", "POST")
	cfg.Webhook.Timeout = getEnvInt("WEBHOOK_TIMEOUT", 10)
	cfg.Webhook.Headers = parseHeaders(os.Getenv("WEBHOOK_HEADERS"))

	// 日志配置
	cfg.Log.Enabled = getEnvBool("LOG_ENABLED", true)
	cfg.Log.Level = getEnvString("LOG_LEVEL", "info")
	cfg.Log.Path = getEnvString("LOG_PATH", "./logs/probe.log")
	cfg.Log.MaxDays = getEnvInt("LOG_MAX_DAYS", 30)

	cfg.ICMP.Enabled = getEnvBool("ICMP_CHECK", false)
	cfg.ICMP.Timeout = getEnvDuration("ICMP_TIMEOUT", 3*time.Second)

	cfg.DNS.APIToken = os.Getenv("CF_API_TOKEN")
	cfg.DNS.Record = os.Getenv("CF_RECORD")
	cfg.DNS.MaxLoss = getEnvFloat("CF_MAX_LOSS", 0)
	cfg.DNS.Retry = getEnvInt("CF_RETRY", 3)

	cfg.S3.Bucket = os.Getenv("S3_BUCKET")
	cfg.S3.Region = getEnvString("S3_REGION", "us-east-1")
	cfg.S3.Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3.Prefix = os.Getenv("S3_PREFIX")

	// 命令行参数可能覆盖配置，校验由调用方在覆盖之后执行
	return cfg, nil
}

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	if c.Probe.Workers <= 0 {
		return errors.New("WORKERS 必须大于0")
	}
	if c.Probe.Trials <= 0 {
		return errors.New("TRIALS 必须大于0")
	}
	if c.Probe.Timeout <= 0 {
		return errors.New("PROBE_TIMEOUT 必须大于0")
	}
	if c.Probe.DefaultPort < 1 || c.Probe.DefaultPort > 65535 {
		return errors.New("DEFAULT_PORT 必须在 1-65535 之间")
	}
	return nil
}

// IsWebhookEnabled 是否配置了 Webhook
func (c *Config) IsWebhookEnabled() bool {
	return c.Webhook.URL != ""
}

// IsDNSEnabled 是否配置了 DNS 发布
func (c *Config) IsDNSEnabled() bool {
	return c.DNS.APIToken != "" && c.DNS.Record != ""
}

// IsS3Enabled 是否配置了结果上传
func (c *Config) IsS3Enabled() bool {
	return c.S3.Bucket != ""
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvSeconds 读取秒数（可带小数），也接受 "1.5s" 这样的时长写法
func getEnvSeconds(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return time.Duration(f * float64(time.Second))
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}

// parseHeaders 解析 "Key=Value,Key2=Value2"
func parseHeaders(s string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		headers[k] = strings.TrimSpace(v)
	}
	return headers
}
