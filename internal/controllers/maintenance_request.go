package controllers

import (
	"net/http"
	"strings"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/services"
	"maintenance-tracker/pkg/middleware"
	"maintenance-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MaintenanceRequestController struct {
	requestService services.MaintenanceRequestServiceInterface
	logger         *zap.Logger
}

func NewMaintenanceRequestController(service services.MaintenanceRequestServiceInterface, logger *zap.Logger) *MaintenanceRequestController {
	return &MaintenanceRequestController{requestService: service, logger: logger}
}

// GetRequests - GET /maintenance-requests?status=&priority=&equipmentId=&page=&limit=
func (c *MaintenanceRequestController) GetRequests(ctx echo.Context) error {
	query := ctx.QueryParams()
	filter := dto.MaintenanceRequestFilter{
		Status:      strings.TrimSpace(query.Get("status")),
		Priority:    strings.TrimSpace(query.Get("priority")),
		EquipmentID: utils.ParseOptionalID(query.Get("equipmentId")),
		Page:        utils.ParsePositive(query.Get("page"), 1),
		Limit:       utils.ParsePositive(query.Get("limit"), maintenancePageSize),
	}
	if filter.Limit > utils.MaxLimit {
		filter.Limit = utils.MaxLimit
	}

	list, err := c.requestService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, middleware.LoggerFrom(ctx, c.logger))
	}
	return utils.RawResponse(ctx, http.StatusOK, list, utils.CacheControlHistory)
}

func (c *MaintenanceRequestController) FindRequest(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	req, err := c.requestService.FindRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, req, utils.CacheControlHistory)
}

func (c *MaintenanceRequestController) CreateRequest(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	var payload dto.CreateMaintenanceRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, utils.RequestTimeout)
	defer cancel()

	req, err := c.requestService.CreateRequest(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusCreated, req, utils.CacheControlNoStore)
}

func (c *MaintenanceRequestController) UpdateRequest(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.UpdateMaintenanceRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	req, err := c.requestService.UpdateRequest(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, req, utils.CacheControlNoStore)
}

func (c *MaintenanceRequestController) DeleteRequest(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	deleted, err := c.requestService.DeleteRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, dto.MaintenanceRequestDeletedDTO{Success: true, Deleted: *deleted}, utils.CacheControlNoStore)
}
