// Package logger 提供全局结构化日志实例
//
// 各系统通过 For("SystemName") 获取带 component 字段的日志条目，
// 取代早期 log.Printf("[SystemName] ...") 的前缀写法。
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log 全局日志实例
// 未调用 Init 时使用默认配置（warn 级别，文本格式），测试中可直接使用
var Log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetOutput(os.Stderr)
	return l
}

// Init 初始化全局日志
//
// 参数：
//   - verbose: 为 true 时默认级别为 debug，否则为 info
//
// 环境变量 LOG_LEVEL 优先于 verbose，LOG_FORMAT=json 切换为 JSON 输出。
func Init(verbose bool) {
	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if parsed, err := logrus.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	Log.SetOutput(os.Stdout)
}

// Discard 丢弃所有日志输出（基准测试和无头运行使用）
func Discard() {
	Log.SetOutput(io.Discard)
}

// For 返回带 component 字段的日志条目
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
