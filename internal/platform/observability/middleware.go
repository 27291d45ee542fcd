package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "rid"
)

// Use mounts request ids, request logging and panic recovery on app. A
// recovered panic reaches the request logger as a 500.
func Use(app *fiber.App, log *zap.Logger, m *Metrics) {
	app.Use(
		RequestID(),
		RequestLogger(log, m),
		recover.New(recover.Config{
			EnableStackTrace: true,
			StackTraceHandler: func(c *fiber.Ctx, e any) {
				log.Error("panic recovered",
					zap.Any("panic", e),
					zap.String("rid", RID(c)),
					zap.Stack("stack"),
				)
			},
		}),
	)
}

// RequestID reuses an incoming X-Request-ID or assigns a new one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(requestIDKey, rid)
		c.Set(RequestIDHeader, rid)
		return c.Next()
	}
}

func RID(c *fiber.Ctx) string {
	if v, ok := c.Locals(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// RequestLogger logs one line per request and feeds the request collectors.
func RequestLogger(log *zap.Logger, m *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the app error handler write the response before we read the status
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		latency := time.Since(start)
		route := c.Route().Path

		log.Info("http",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("rid", RID(c)),
			zap.Duration("latency", latency),
		)
		m.observeRequest(c.Method(), route, strconv.Itoa(status), latency.Seconds())
		return nil
	}
}
