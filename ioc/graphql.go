package ioc

import (
	"context"

	"github.com/ichaly/introspect/bus"
	"github.com/ichaly/introspect/gql"
	"github.com/ichaly/introspect/std"
)

func init() {
	Add(Module("graphql",
		Provide(
			std.NewCache,
			gql.NewCache,
			gql.NewRegistry,
			gql.NewExecutor,
			bus.NewBus,
			gql.NewSync,
			Annotate(
				gql.NewHandler,
				As(new(std.Plugin)),
				ResultTags(`group:"plugin"`),
			),
			Group("readiness", func(r *gql.Registry) std.Check {
				return std.Check{Name: "schema", Probe: r.Ready}
			}),
			Group("readiness", func(c *std.Cache) std.Check {
				return std.Check{Name: "cache", Probe: func() error {
					return c.Ping(context.Background())
				}}
			}),
		),
		// 总线同步没有其他依赖方，需要显式触发构造
		Invoke(func(*gql.Sync) {}),
	))
}
