package middleware

import (
	"time"

	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NewRequestLoggerMiddleware attaches a request scoped logger to the request context.
// The request id is taken from X-Request-ID when present and echoed back.
func NewRequestLoggerMiddleware(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			reqLog := log.With(
				logger.StringField("request_id", requestID),
				logger.StringField("method", req.Method),
				logger.StringField("path", c.Path()),
			)
			ctx := logger.NewContext(req.Context(), reqLog)
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			reqLog.Debug("Request completed",
				logger.IntField("status", c.Response().Status),
				logger.Field("latency", time.Since(start)),
			)
			return err
		}
	}
}
