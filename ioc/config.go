package ioc

import (
	"github.com/ichaly/introspect/log"
	"github.com/ichaly/introspect/std"
	"github.com/knadh/koanf/v2"
)

// 配置模块，配置文件路径由fx.Supply提供
func init() {
	Add(Module("config",
		Provide(newKoanf, std.NewConfig),
		Invoke(setupLogger),
	))
}

func newKoanf(filePath string) (*koanf.Koanf, error) {
	return std.NewKoanf(filePath)
}

// setupLogger 按配置替换默认logger，配置了log.file时同时写入轮转文件
func setupLogger(c *std.Config) {
	ops := []log.LoggerOption{log.WithLevel(log.ParseLevel(c.Log.Level))}
	if c.Log.File != "" {
		ops = append([]log.LoggerOption{log.WithRotate(log.WithFilename(c.Log.File))}, ops...)
	}
	log.SetDefault(log.NewLogger(ops...))
}
