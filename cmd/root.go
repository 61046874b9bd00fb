package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile string
	rootCmd = &cobra.Command{
		Use:   "serverprobe",
		Short: "Minecraft 服务器连通性测试工具",
		Long: `serverprobe 并行测试一组 Minecraft 服务器的 TCP 连通性，
统计延迟和丢包率，按丢包率和延迟给出推荐服务器列表。`,
		Version: "1.0.0",
	}
)

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// 不指定时读取当前目录的 .env
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "配置文件路径 (默认 .env)")
}
