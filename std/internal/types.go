package internal

import "time"

type AppConfig struct {
	Name string `mapstructure:"name"`
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Root string `mapstructure:"root"`
}

// SchemaConfig 对外提供自省的schema文件
type SchemaConfig struct {
	Path     string        `mapstructure:"path"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// DataSource 缓存数据源，dialect取值memory、redis或none
type DataSource struct {
	Dialect  string        `mapstructure:"dialect"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Name     string        `mapstructure:"name"`
	Password string        `mapstructure:"password"`
	Ttl      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// BusConfig schema变更通知总线，driver取值memory、redis、nats、postgres或none
type BusConfig struct {
	Driver string `mapstructure:"driver"`
	Url    string `mapstructure:"url"`
	Topic  string `mapstructure:"topic"`
}
