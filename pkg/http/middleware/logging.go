package middleware

import (
	"time"

	"KeepItBased/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request with method, path, status and
// latency.
func RequestLogging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			log.Info("request",
				logger.String("method", req.Method),
				logger.String("uri", req.RequestURI),
				logger.String("remote", req.RemoteAddr),
				logger.Int("status", res.Status),
				logger.Duration("latency", time.Since(start)),
			)

			return err
		}
	}
}
