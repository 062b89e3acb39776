package ioc

import (
	"github.com/ichaly/introspect/std"
	"go.uber.org/fx"
)

var options []fx.Option

func Add(args ...fx.Option) {
	options = append(options, args...)
}

func Get() fx.Option {
	return fx.Options(options...)
}

func init() {
	Add(
		Provide(
			newAdapter,
			std.NewFiber,
			Annotate(
				std.NewHealth,
				ParamTags(`group:"readiness"`),
				As(new(std.Plugin)),
				ResultTags(`group:"plugin"`),
			),
		),
		Invoke(std.Bootstrap),
	)
}
