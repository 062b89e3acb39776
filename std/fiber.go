package std

import (
	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	jsoniter "github.com/json-iterator/go"

	"github.com/ichaly/introspect/log"
)

var fiberJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// NewFiber 创建并配置一个新的fiber应用实例
func NewFiber(c *Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               c.Name,
		DisableStartupMessage: !c.IsDebug(),
		JSONEncoder:           fiberJSON.Marshal,
		JSONDecoder:           fiberJSON.Unmarshal,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// 调试模式下记录请求日志
	if c.IsDebug() {
		logger := log.Default().Zero()
		app.Use(fiberzerolog.New(fiberzerolog.Config{
			Logger: &logger,
			Fields: []string{fiberzerolog.FieldMethod, fiberzerolog.FieldURL, fiberzerolog.FieldStatus, fiberzerolog.FieldLatency, fiberzerolog.FieldRequestID},
		}))
	}

	return app
}
