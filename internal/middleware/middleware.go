// Package middleware installs the cross-cutting HTTP handlers shared by every route.
package middleware

import (
	"doc-rag/config"
	"doc-rag/pkg/apperror"
	"doc-rag/pkg/logger"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register installs recovery, request ids, CORS, the connection limiter and
// request logging on app, and exposes /metrics.
func Register(app *fiber.App, cfg config.Config) {
	app.Use(panicRecoveryMiddleware())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Cors.AllowOrigins,
		AllowMethods: cfg.Cors.AllowMethods,
		AllowHeaders: cfg.Cors.AllowHeaders,
	}))
	app.Use(connectionLimiterMiddleware(NewConnectionLimiter(cfg.Server.Concurrency)))
	app.Use(requestLogMiddleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// ConnectionLimiter caps the number of requests handled at once. Requests over
// the cap are rejected, not queued.
type ConnectionLimiter struct {
	slots chan struct{}
}

func NewConnectionLimiter(limit int) *ConnectionLimiter {
	if limit < 1 {
		limit = 1
	}
	return &ConnectionLimiter{slots: make(chan struct{}, limit)}
}

// Acquire takes a slot without blocking.
func (cl *ConnectionLimiter) Acquire() bool {
	select {
	case cl.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (cl *ConnectionLimiter) Release() {
	select {
	case <-cl.slots:
	default:
	}
}

// InFlight reports how many slots are taken.
func (cl *ConnectionLimiter) InFlight() int {
	return len(cl.slots)
}

func connectionLimiterMiddleware(limiter *ConnectionLimiter) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !limiter.Acquire() {
			return apperror.WriteError(config.ModuleServer, c, fiber.StatusServiceUnavailable, "", "server is at maximum capacity")
		}
		defer limiter.Release()
		return c.Next()
	}
}

// panicRecoveryMiddleware turns a handler panic into a logged 500.
func panicRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.WithFields(map[string]interface{}{
				"module": config.ModuleServer,
				"panic":  r,
				"method": c.Method(),
				"path":   c.Path(),
				"ip":     c.IP(),
				"stack":  string(debug.Stack()),
			}).Errorf("panic recovered")
			err = c.Status(fiber.StatusInternalServerError).JSON(apperror.ErrorResponse{
				Error: http.StatusText(fiber.StatusInternalServerError),
			})
		}()
		return c.Next()
	}
}

// requestLogMiddleware logs method, path, status and latency of each request.
func requestLogMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.WithFields(map[string]interface{}{
			"module":     config.ModuleServer,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		}).Info("http request")
		return err
	}
}
