package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ekant1999/StrategyEvolve/config"
	"github.com/ekant1999/StrategyEvolve/internal/backtest"
	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/internal/evolution"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/internal/service"
	"github.com/ekant1999/StrategyEvolve/pkg/logger"
	"github.com/ekant1999/StrategyEvolve/pkg/middleware"
	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	cfg       *config.Config
	log       *logger.Logger
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, cfg *config.Config, log *logger.Logger, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:       cfg,
		log:       log,
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/health", h.health)

	base := h.echo.Group("/api/v1",
		middleware.NewRequestLoggerMiddleware(h.log),
		middleware.NewRateLimiterMiddleware(h.cfg.API.RateLimitPerSec, h.cfg.API.RateLimitBurst),
	)
	h.SetupStrategies(base)
	h.SetupBacktest(base)
	h.SetupEvolution(base)
	h.SetupTrades(base)
	h.SetupUsers(base)
	h.SetupJobs(base)
}

func (h *HttpAPIHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}

// bind decodes and validates req, returning the response to send when either step fails.
func (h *HttpAPIHandler) bind(c echo.Context, req interface{}) *dto.BaseResponse {
	if err := c.Bind(req); err != nil {
		return dto.NewBadRequestResponse("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return dto.NewBadRequestResponse(err.Error())
	}
	return nil
}

func (h *HttpAPIHandler) errorResponse(c echo.Context, err error) error {
	var (
		validationErr *dto.ValidationError
		barErr        *backtest.BarError
		noViableErr   *evolution.NoViableStrategyError
	)

	var resp *dto.BaseResponse
	switch {
	case errors.As(err, &noViableErr):
		resp = dto.NewBaseResponse(http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.As(err, &validationErr), errors.As(err, &barErr):
		resp = dto.NewBadRequestResponse(err.Error())
	case errors.Is(err, service.ErrStrategyNotFound), errors.Is(err, service.ErrUserNotFound), errors.Is(err, repository.ErrNotFound):
		resp = dto.NewNotFoundResponse(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		resp = dto.NewBaseResponse(http.StatusServiceUnavailable, "request cancelled", nil)
	default:
		h.log.ErrorContext(c.Request().Context(), "Request failed",
			logger.StringField("path", c.Path()),
			logger.ErrorField(err),
		)
		resp = dto.NewInternalErrorResponse("internal server error")
	}
	return c.JSON(resp.Code, resp)
}
