package std

import (
	"github.com/ichaly/introspect/std/internal"
	"github.com/knadh/koanf/v2"
)

type (
	SchemaConfig = internal.SchemaConfig
	DataSource   = internal.DataSource
	LogConfig    = internal.LogConfig
	BusConfig    = internal.BusConfig
)

// Config 表示标准配置
type Config struct {
	internal.AppConfig `mapstructure:"app"`
	Mode               string       `mapstructure:"mode"`
	Schema             SchemaConfig `mapstructure:"schema"`
	Cache              DataSource   `mapstructure:"cache"`
	Log                LogConfig    `mapstructure:"log"`
	Bus                BusConfig    `mapstructure:"bus"`
}

func NewConfig(k *koanf.Koanf) (*Config, error) {
	c := &Config{}
	if err := k.UnmarshalWithConf("", c, koanf.UnmarshalConf{Tag: "mapstructure"}); err != nil {
		return nil, err
	}
	return c, nil
}

// IsDebug 判断是否为开发模式
func (my *Config) IsDebug() bool {
	return my.Mode == "development" || my.Mode == "dev"
}
