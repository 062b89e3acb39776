package std

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ichaly/introspect/utl"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// KoanfOption 定义配置选项函数类型
type KoanfOption func(*koanfOptions)

// koanfOptions 保存koanf的配置选项
type koanfOptions struct {
	configType string
	envPrefix  string
	envFile    string
	delim      string
	strict     bool
}

// defaultConfig 未在配置文件中出现的键使用的默认值
//
//go:embed default.yml
var defaultConfig []byte

// NewKoanf 创建新的配置实例，优先级从低到高依次为默认值、配置文件、profile配置、环境变量
func NewKoanf(filePath string, opts ...KoanfOption) (*koanf.Koanf, error) {
	if filePath == "" {
		return nil, errors.New("配置文件路径不能为空")
	}

	// 解析文件路径和名称
	path := filepath.Dir(filePath)
	ext := filepath.Ext(filePath)
	name := strings.TrimSuffix(filepath.Base(filePath), ext)

	options := &koanfOptions{
		configType: strings.TrimPrefix(ext, "."),
		envPrefix:  "APP",
		envFile:    filepath.Join(utl.Root(), ".env"),
		delim:      ".",
	}
	for _, opt := range opts {
		opt(options)
	}

	parser, err := parserOf(options.configType)
	if err != nil {
		return nil, err
	}

	k := koanf.NewWithConf(koanf.Conf{
		Delim:       options.delim,
		StrictMerge: options.strict,
	})

	root := utl.Root()
	if err := k.Load(rawbytes.Provider(defaultConfig), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("加载默认配置: %w", err)
	}
	// 运行时才能确定的默认值
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"app": map[string]interface{}{"root": root},
	}, options.delim), nil); err != nil {
		return nil, fmt.Errorf("加载默认配置: %w", err)
	}

	// 加载环境变量文件(可选)
	if err := loadEnvFile(options.envFile); err != nil {
		return nil, fmt.Errorf("加载环境变量文件: %w", err)
	}

	if err := k.Load(file.Provider(filePath), parser); err != nil {
		return nil, fmt.Errorf("加载配置文件: %w", err)
	}

	if err := mergeProfiles(k, path, name, ext, parser); err != nil {
		return nil, fmt.Errorf("合并环境配置: %w", err)
	}

	// 最后加载环境变量，确保环境变量优先级最高
	prefix := options.envPrefix + "_"
	envProvider := env.Provider(prefix, options.delim, func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, prefix)), "_", options.delim, -1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	// schema路径相对于配置文件所在目录
	if p := k.String("schema.path"); p != "" && !filepath.IsAbs(p) {
		_ = k.Set("schema.path", resolvePath(path, root, p))
	}

	return k, nil
}

func parserOf(configType string) (koanf.Parser, error) {
	switch configType {
	case "yaml", "yml":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("不支持的配置文件类型: %s", configType)
	}
}

// resolvePath 相对路径优先相对配置文件目录，不存在时回退到项目根目录
func resolvePath(dir, root, p string) string {
	candidate := filepath.Join(dir, p)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return filepath.Join(root, p)
}

// loadEnvFile 加载环境变量文件(可选)
func loadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("加载.env文件失败: %w", err)
	}
	return nil
}

// getActiveProfiles 获取激活的profiles，mode同时作为最后一个profile
func getActiveProfiles(k *koanf.Koanf) []string {
	var profiles []string
	for _, p := range strings.Split(k.String("profiles.active"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			profiles = append(profiles, p)
		}
	}
	if mode := k.String("mode"); mode != "" {
		profiles = append(profiles, mode)
	}
	return profiles
}

// mergeProfiles 合并config-<profile>.yml形式的配置文件
func mergeProfiles(k *koanf.Koanf, path, name, ext string, parser koanf.Parser) error {
	for _, profile := range getActiveProfiles(k) {
		profileFilePath := filepath.Join(path, name+"-"+profile+ext)
		if _, err := os.Stat(profileFilePath); os.IsNotExist(err) {
			continue
		}
		if err := k.Load(file.Provider(profileFilePath), parser); err != nil {
			return fmt.Errorf("合并profile配置文件失败: %w", err)
		}
	}
	return nil
}

// WithConfigType 设置配置文件类型
func WithConfigType(configType string) KoanfOption {
	return func(options *koanfOptions) {
		options.configType = configType
	}
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) KoanfOption {
	return func(options *koanfOptions) {
		options.envPrefix = prefix
	}
}

// WithEnvFile 设置.env文件路径，空字符串表示不加载
func WithEnvFile(envFile string) KoanfOption {
	return func(options *koanfOptions) {
		options.envFile = envFile
	}
}

// WithDelimiter 设置配置项分隔符
func WithDelimiter(delim string) KoanfOption {
	return func(options *koanfOptions) {
		options.delim = delim
	}
}

// WithStrictMerge 设置严格合并
func WithStrictMerge(strict bool) KoanfOption {
	return func(options *koanfOptions) {
		options.strict = strict
	}
}
