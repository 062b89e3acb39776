package std

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ichaly/introspect/log"
	"go.uber.org/fx"
)

var (
	// Version 当前版本号
	Version = "V0.0.0"
	// GitCommit Git提交哈希
	GitCommit = "Unknown"
	// BuildTime 构建时间
	BuildTime = ""

	// 路径规范化正则表达式
	reg = regexp.MustCompile(`/+`)
)

// Plugin 插件接口
type Plugin interface {
	// Base 插件基础路径
	Base() string
	// Init 初始化插件
	Init(fiber.Router)
}

// PluginGroup 插件组
type PluginGroup struct {
	fx.In
	Plugins     []Plugin `group:"plugin"`
	Middlewares []Plugin `group:"middleware"`
}

// Mount 将中间件与插件挂载到各自的路由组，相同基础路径共用一个路由组
func Mount(a *fiber.App, g PluginGroup) {
	routers := map[string]fiber.Router{"/": a}
	getRouter := func(basePath string) fiber.Router {
		// 将连续的多个斜杠替换为单个斜杠并移除右侧斜杠
		base := fmt.Sprintf("%s/", strings.TrimRight(reg.ReplaceAllString(basePath, "/"), "/"))
		if r, exists := routers[base]; exists {
			return r
		}
		r := a.Group(base)
		routers[base] = r
		return r
	}

	all := append(append([]Plugin{}, g.Middlewares...), g.Plugins...)
	for _, m := range all {
		m.Init(getRouter(m.Base()))
	}
}

// Bootstrap 应用程序引导函数
func Bootstrap(l fx.Lifecycle, c *Config, a *fiber.App, g PluginGroup) {
	if BuildTime == "" {
		BuildTime = time.Now().Format(time.DateTime)
	}

	Mount(a, g)

	l.Append(fx.StartStopHook(func(ctx context.Context) {
		// 异步启动服务器
		go func() {
			addr := net.JoinHostPort(c.Host, c.Port)
			log.Info().Str("addr", addr).Msgf("%v 启动", c.Name)
			if err := a.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msgf("%v 启动失败", c.Name)
			}
		}()
	}, func(ctx context.Context) error {
		err := a.ShutdownWithContext(ctx)
		log.Info().Msgf("%v 已关闭", c.Name)
		return err
	}))

	log.Info().Str("version", Version).Str("commit", GitCommit).Str("build", BuildTime).Msg("当前版本")
}
