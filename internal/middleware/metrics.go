package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// RequestObserver records completed HTTP requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Metrics reports every request to observer, labelled by the matched route pattern.
// Label values are copied: fasthttp reuses the request buffers once the handler returns.
func Metrics(observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		route := c.Route().Path
		if route == "" || (route == "/" && c.Path() != "/") {
			route = "unmatched"
		}
		observer.ObserveRequest(utils.CopyString(c.Method()), utils.CopyString(route), status, time.Since(start))
		return err
	}
}
