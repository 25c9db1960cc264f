package middleware

import (
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request with its status and latency.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		entry := log.WithFields(log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  status,
			"latency": time.Since(start).String(),
			"client":  PlayerID(c),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Debug("request")
		}
		return err
	}
}
