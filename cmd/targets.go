package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"serverprobe/internal/target"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "列出将要测试的服务器",
	Long:  "按远程列表、目标文件、内置列表的顺序加载目标并显示解析结果",
	Run: func(cmd *cobra.Command, args []string) {
		if err := InitSystem(); err != nil {
			fmt.Fprintf(os.Stderr, "系统初始化失败: %v\n", err)
			os.Exit(1)
		}
		cfg := GetConfig()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", err)
			os.Exit(1)
		}

		raws, err := loadTargets(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "加载目标列表失败: %v\n", err)
			os.Exit(1)
		}

		invalid := 0
		for i, t := range target.ParseAll(raws, cfg.Probe.DefaultPort) {
			if t.Valid() {
				fmt.Printf("  %d. %s -> %s\n", i+1, t.Raw, t.Address())
			} else {
				invalid++
				fmt.Printf("  %d. %s -> 无效: %v\n", i+1, t.Raw, t.Err)
			}
		}
		fmt.Printf("\n共 %d 个目标，无效 %d 个\n", len(raws), invalid)
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
