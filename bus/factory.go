package bus

import (
	"fmt"

	"github.com/ichaly/introspect/bus/providers"
	"github.com/ichaly/introspect/bus/providers/memory"
	"github.com/ichaly/introspect/bus/providers/nats"
	"github.com/ichaly/introspect/bus/providers/postgres"
	"github.com/ichaly/introspect/bus/providers/redis"
	"github.com/ichaly/introspect/log"
	"github.com/ichaly/introspect/std"
)

const (
	DRIVER_MEMORY   = "memory"
	DRIVER_REDIS    = "redis"
	DRIVER_NATS     = "nats"
	DRIVER_POSTGRES = "postgres"
	DRIVER_NONE     = "none"
)

type Bus = providers.Bus

// NewBus 根据bus.driver创建总线，driver为none时返回nil，不在实例间同步schema
func NewBus(c *std.Config) (Bus, error) {
	driver := c.Bus.Driver
	if driver == "" {
		driver = DRIVER_MEMORY
	}
	log.Info().Str("driver", driver).Msg("初始化schema通知总线")

	switch driver {
	case DRIVER_NONE:
		return nil, nil
	case DRIVER_MEMORY:
		return memory.NewMemoryBus(), nil
	case DRIVER_REDIS:
		return connect(redis.NewRedisBus(c.Bus.Url))
	case DRIVER_NATS:
		return connect(nats.NewNatsBus(c.Bus.Url))
	case DRIVER_POSTGRES:
		return connect(postgres.NewPostgresBus(c.Bus.Url))
	default:
		return nil, fmt.Errorf("不支持的总线驱动: %s", driver)
	}
}

// connect 连接失败时返回nil接口，避免携带类型的nil值
func connect[T Bus](b T, err error) (Bus, error) {
	if err != nil {
		return nil, fmt.Errorf("连接总线失败: %w", err)
	}
	return b, nil
}
