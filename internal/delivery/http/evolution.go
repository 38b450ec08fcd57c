package http

import (
	"net/http"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupEvolution(base *echo.Group) {
	evolutionGroup := base.Group("/evolution")
	evolutionGroup.POST("/optimize", h.optimize)
	evolutionGroup.POST("/evolve", h.evolve)
	evolutionGroup.GET("/history", h.history)
}

func (h *HttpAPIHandler) optimize(c echo.Context) error {
	req := new(dto.OptimizeRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.EvolutionService.Optimize(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("optimization complete", result))
}

func (h *HttpAPIHandler) evolve(c echo.Context) error {
	req := new(dto.EvolveRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.EvolutionService.Evolve(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("evolution complete", result))
}

func (h *HttpAPIHandler) history(c echo.Context) error {
	req := new(dto.HistoryQuery)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	events, err := h.service.EvolutionService.History(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", events))
}
