package http

import (
	"net/http"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupUsers(base *echo.Group) {
	users := base.Group("/users")
	users.POST("", h.createUser)
	users.GET("/:id", h.getUser)
}

func (h *HttpAPIHandler) createUser(c echo.Context) error {
	req := new(dto.CreateUserRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	user, err := h.service.UserService.Create(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "user created", user))
}

func (h *HttpAPIHandler) getUser(c echo.Context) error {
	user, err := h.service.UserService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", user))
}
