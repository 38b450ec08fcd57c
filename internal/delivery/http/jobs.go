package http

import (
	"net/http"

	"github.com/ekant1999/StrategyEvolve/internal/dto"
	"github.com/ekant1999/StrategyEvolve/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	jobs := base.Group("/jobs")
	{
		jobs.POST("/evolve/run", h.RunJobs)
		jobs.GET("/evolve/next", h.NextJobRun)
	}
}

// RunJobs triggers the scheduled optimization pass immediately.
func (h *HttpAPIHandler) RunJobs(c echo.Context) error {
	response := dto.NewBaseResponse(http.StatusOK, "Evolution run completed", nil)
	if err := h.service.SchedulerService.Execute(c.Request().Context()); err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) NextJobRun(c echo.Context) error {
	next, err := h.service.SchedulerService.NextRun(utils.TimeNow())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", map[string]interface{}{
		"enabled":  h.cfg.Scheduler.Enabled,
		"spec":     h.cfg.Scheduler.EvolveSpec,
		"next_run": next,
	}))
}
