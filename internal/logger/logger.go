package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log *logrus.Logger

var fileWriter *lumberjack.Logger

func newLogger(level string, out io.Writer, colors bool) *logrus.Logger {
	l := logrus.New()

	// 设置日志级别
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	l.SetLevel(logLevel)

	// 设置日志格式
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     colors,
		DisableColors:   !colors,
	})
	l.SetOutput(out)
	return l
}

// Init 初始化日志系统（写入按天数轮转的日志文件）
// 控制台输出由命令自行打印，日志只记录到文件
func Init(level, logPath string, maxDays int) error {
	if dir := filepath.Dir(logPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	fileWriter = &lumberjack.Logger{
		Filename:  logPath,
		MaxSize:   10, // MB
		MaxAge:    maxDays,
		LocalTime: true,
	}
	Log = newLogger(level, fileWriter, false)
	return nil
}

// InitConsoleOnly 初始化日志系统（仅控制台输出）
func InitConsoleOnly(level string) {
	Log = newLogger(level, os.Stdout, true)
}

// Close 关闭日志文件
func Close() error {
	if fileWriter != nil {
		return fileWriter.Close()
	}
	return nil
}

// Debug 调试日志
func Debug(args ...interface{}) {
	if Log != nil {
		Log.Debug(args...)
	}
}

// Debugf 格式化调试日志
func Debugf(format string, args ...interface{}) {
	if Log != nil {
		Log.Debugf(format, args...)
	}
}

// Info 信息日志
func Info(args ...interface{}) {
	if Log != nil {
		Log.Info(args...)
	}
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	if Log != nil {
		Log.Infof(format, args...)
	}
}

// Warn 警告日志
func Warn(args ...interface{}) {
	if Log != nil {
		Log.Warn(args...)
	}
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	if Log != nil {
		Log.Warnf(format, args...)
	}
}

// Error 错误日志
func Error(args ...interface{}) {
	if Log != nil {
		Log.Error(args...)
	}
}

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) {
	if Log != nil {
		Log.Errorf(format, args...)
	}
}
