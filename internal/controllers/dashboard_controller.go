package controllers

import (
	"net/http"

	"maintenance-tracker/internal/services"
	"maintenance-tracker/pkg/middleware"
	"maintenance-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardController struct {
	service services.DashboardServiceInterface
	logger  *zap.Logger
}

func NewDashboardController(service services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{service: service, logger: logger}
}

// GetStats - GET /dashboard/stats
func (c *DashboardController) GetStats(ctx echo.Context) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, utils.RequestTimeout)
	defer cancel()

	stats, err := c.service.GetDashboardStats(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, middleware.LoggerFrom(ctx, c.logger))
	}
	return utils.RawResponse(ctx, http.StatusOK, stats, utils.CacheControlShort)
}
