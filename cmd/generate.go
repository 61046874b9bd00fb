package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"serverprobe/internal/config"
	"serverprobe/internal/target"
)

var (
	initTargetsFile string

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "生成默认配置文件和目标列表",
		Run: func(cmd *cobra.Command, args []string) {
			path := envFile
			if path == "" {
				path = ".env"
			}
			if err := config.GenerateDefault(path); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
			} else {
				fmt.Printf("已生成: %s\n", path)
			}

			if err := writeDefaultTargets(initTargetsFile); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				return
			}
			fmt.Printf("已生成: %s\n", initTargetsFile)
		},
	}
)

// writeDefaultTargets 将内置列表写入目标文件，不覆盖已有文件
func writeDefaultTargets(path string) error {
	raws, err := target.DefaultSource().Load()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("创建目标文件失败: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(strings.Join(raws, "\n") + "\n"); err != nil {
		return fmt.Errorf("写入目标文件失败: %w", err)
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initTargetsFile, "targets", "f", "targets.txt", "目标列表文件")
}
