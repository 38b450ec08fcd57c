package http

import (
	"net/http"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	backtestGroup := base.Group("/backtest")
	backtestGroup.POST("", h.runBacktest)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	req := new(dto.BacktestRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.StrategyService.BacktestParameters(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("backtest complete", result))
}
