package http

import (
	"net/http"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStrategies(base *echo.Group) {
	strategies := base.Group("/strategies")
	strategies.GET("", h.listStrategies)
	strategies.GET("/:id", h.getStrategy)
	strategies.POST("/generate", h.generateVariants)
	strategies.POST("/:id/backtest", h.backtestStrategy)
}

func (h *HttpAPIHandler) listStrategies(c echo.Context) error {
	kind := dto.StrategyKind(c.QueryParam("type"))
	switch kind {
	case "", dto.StrategyKindBase, dto.StrategyKindOptimized, dto.StrategyKindHybrid:
	default:
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("type must be one of base, optimized, hybrid"))
	}

	strategies, err := h.service.StrategyService.List(c.Request().Context(), kind)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", strategies))
}

func (h *HttpAPIHandler) getStrategy(c echo.Context) error {
	strategy, err := h.service.StrategyService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", strategy))
}

func (h *HttpAPIHandler) generateVariants(c echo.Context) error {
	req := new(dto.GenerateVariantsRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	variants, err := h.service.StrategyService.GenerateVariants(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "variants generated", variants))
}

func (h *HttpAPIHandler) backtestStrategy(c echo.Context) error {
	req := new(dto.MarketWindow)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.StrategyService.Backtest(c.Request().Context(), c.Param("id"), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("backtest complete", result))
}
