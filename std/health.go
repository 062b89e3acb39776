package std

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Check 就绪检查项
type Check struct {
	Name  string
	Probe func() error
}

type Health struct {
	start  time.Time
	checks []Check
}

func NewHealth(checks []Check) *Health {
	return &Health{start: time.Now(), checks: checks}
}

func (my *Health) Base() string {
	return "/health"
}

func (my *Health) Init(r fiber.Router) {
	r.Get("/", my.Check)
	r.Get("/live", my.Liveness)
	r.Get("/ready", my.Readiness)
}

// Check 通用健康检查
func (my *Health) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// Liveness 存活检查
func (my *Health) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
		"uptime":    time.Since(my.start).Seconds(),
	})
}

// Readiness 就绪检查，任一检查项失败返回503
func (my *Health) Readiness(c *fiber.Ctx) error {
	status, code := "ready", fiber.StatusOK
	checks := fiber.Map{}
	for _, check := range my.checks {
		if err := check.Probe(); err != nil {
			checks[check.Name] = err.Error()
			status, code = "not_ready", fiber.StatusServiceUnavailable
			continue
		}
		checks[check.Name] = "ok"
	}
	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}
