package http

import (
	"net/http"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTrades(base *echo.Group) {
	trades := base.Group("/trades")
	trades.GET("", h.listTrades)
	trades.POST("", h.createTrade)
}

func (h *HttpAPIHandler) listTrades(c echo.Context) error {
	req := new(dto.ListTradesQuery)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	trades, err := h.service.TradeService.ListByUser(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", trades))
}

func (h *HttpAPIHandler) createTrade(c echo.Context) error {
	req := new(dto.CreateTradeRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	trade, err := h.service.TradeService.Create(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "trade logged", trade))
}
