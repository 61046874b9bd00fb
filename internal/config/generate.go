package config

import (
	"fmt"
	"os"
)

const defaultEnv = `# 探测配置
PROBE_TIMEOUT=3.0
DEFAULT_PORT=25565
WORKERS=3
TRIALS=3
TRIAL_DELAY=100ms
PAYLOAD_ENABLED=true
PAYLOAD_TIMEOUT=500ms
TASK_MARGIN=10s

# 目标列表，TARGETS_URL 优先于文件
TARGETS_FILE=targets.txt
TARGETS_URL=

# 结果文件
RESULT_DIR=.
REPORT_SIGNATURE=

# 日志
LOG_ENABLED=true
LOG_LEVEL=info
LOG_PATH=./logs/probe.log
LOG_MAX_DAYS=30

# 不可用服务器的 ICMP 诊断（需要 root 或 CAP_NET_RAW）
ICMP_CHECK=false
ICMP_TIMEOUT=3s

# Webhook 通知
WEBHOOK_URL=
WEBHOOK_METHOD=POST
WEBHOOK_TIMEOUT=10
WEBHOOK_HEADERS=

# Cloudflare DNS 发布
CF_API_TOKEN=
CF_RECORD=
CF_MAX_LOSS=0
CF_RETRY=3

# S3 上传
S3_BUCKET=
S3_REGION=us-east-1
S3_ENDPOINT=
S3_PREFIX=
`

// GenerateDefault 生成默认配置文件，文件已存在时返回错误
func GenerateDefault(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("创建配置文件失败: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(defaultEnv); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return f.Close()
}
