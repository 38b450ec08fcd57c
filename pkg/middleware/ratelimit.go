package middleware

import (
	"net/http"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewRateLimiterMiddleware limits requests per client IP.
func NewRateLimiterMiddleware(perSecond float64, burst int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = 10
	}
	if burst <= 0 {
		burst = 30
	}
	config := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(perSecond),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			},
		),

		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},

		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, dto.NewBaseResponse(http.StatusForbidden, "Access forbidden: rate limiter error", nil))
		},

		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, dto.NewBaseResponse(http.StatusTooManyRequests, "Too many requests, please try again later", nil))
		},
	}

	return middleware.RateLimiterWithConfig(config)
}
