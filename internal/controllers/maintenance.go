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

type MaintenanceController struct {
	maintenanceService services.MaintenanceServiceInterface
	logger             *zap.Logger
}

func NewMaintenanceController(service services.MaintenanceServiceInterface, logger *zap.Logger) *MaintenanceController {
	return &MaintenanceController{maintenanceService: service, logger: logger}
}

const maintenancePageSize = 20

// GetMaintenance - GET /maintenance?status=&type=&equipmentId=&upcoming=true&page=&limit=
func (c *MaintenanceController) GetMaintenance(ctx echo.Context) error {
	query := ctx.QueryParams()
	filter := dto.MaintenanceFilter{
		Status:      query.Get("status"),
		Type:        strings.TrimSpace(query.Get("type")),
		EquipmentID: utils.ParseOptionalID(query.Get("equipmentId")),
		Upcoming:    query.Get("upcoming") == "true",
		Page:        utils.ParsePositive(query.Get("page"), 1),
		Limit:       utils.ParsePositive(query.Get("limit"), maintenancePageSize),
	}
	if filter.Status == "all" {
		filter.Status = ""
	}
	if filter.Limit > utils.MaxLimit {
		filter.Limit = utils.MaxLimit
	}

	list, err := c.maintenanceService.GetMaintenance(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, middleware.LoggerFrom(ctx, c.logger))
	}
	return utils.RawResponse(ctx, http.StatusOK, list, utils.CacheControlHistory)
}

func (c *MaintenanceController) FindMaintenance(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	record, err := c.maintenanceService.FindMaintenance(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, record, utils.CacheControlRecord)
}

// CreateMaintenance - POST /maintenance
func (c *MaintenanceController) CreateMaintenance(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	var payload dto.CreateMaintenanceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, utils.RequestTimeout)
	defer cancel()

	record, err := c.maintenanceService.CreateMaintenance(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusCreated, record, utils.CacheControlNoStore)
}

// UpdateMaintenance - PUT /maintenance/:id
func (c *MaintenanceController) UpdateMaintenance(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.UpdateMaintenanceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	record, err := c.maintenanceService.UpdateMaintenance(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, record, utils.CacheControlNoStore)
}

// DeleteMaintenance - DELETE /maintenance/:id, отвечает удаленной записью.
func (c *MaintenanceController) DeleteMaintenance(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	deleted, err := c.maintenanceService.DeleteMaintenance(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, dto.MaintenanceDeletedDTO{Success: true, Deleted: *deleted}, utils.CacheControlNoStore)
}

// GetHistory - GET /maintenance/equipment/:id
func (c *MaintenanceController) GetHistory(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	records, err := c.maintenanceService.GetHistory(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, records, utils.CacheControlHistory)
}

func (c *MaintenanceController) GetNotes(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	notes, err := c.maintenanceService.GetNotes(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, notes, utils.CacheControlHistory)
}

func (c *MaintenanceController) CreateNote(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.CreateMaintenanceNoteDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	note, err := c.maintenanceService.CreateNote(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusCreated, note, utils.CacheControlNoStore)
}

func (c *MaintenanceController) GetParts(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	parts, err := c.maintenanceService.GetParts(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, parts, utils.CacheControlHistory)
}

func (c *MaintenanceController) CreatePart(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.CreateMaintenancePartDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	part, err := c.maintenanceService.CreatePart(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusCreated, part, utils.CacheControlNoStore)
}

// parseChecklistPath - id записи и itemId пункта из пути.
func parseChecklistPath(ctx echo.Context) (uint64, uint64, error) {
	maintenanceID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return 0, 0, err
	}
	itemID, err := utils.ParseIDParam(ctx, "itemId")
	if err != nil {
		return 0, 0, err
	}
	return maintenanceID, itemID, nil
}

func (c *MaintenanceController) GetChecklist(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	items, err := c.maintenanceService.GetChecklist(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, items, utils.CacheControlHistory)
}

func (c *MaintenanceController) CreateChecklistItem(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.CreateChecklistItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	item, err := c.maintenanceService.CreateChecklistItem(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusCreated, item, utils.CacheControlNoStore)
}

func (c *MaintenanceController) FindChecklistItem(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	maintenanceID, itemID, err := parseChecklistPath(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	item, err := c.maintenanceService.FindChecklistItem(ctx.Request().Context(), maintenanceID, itemID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, item, utils.CacheControlHistory)
}

func (c *MaintenanceController) UpdateChecklistItem(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	maintenanceID, itemID, err := parseChecklistPath(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.UpdateChecklistItemDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	item, err := c.maintenanceService.UpdateChecklistItem(ctx.Request().Context(), maintenanceID, itemID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, item, utils.CacheControlNoStore)
}

func (c *MaintenanceController) DeleteChecklistItem(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	maintenanceID, itemID, err := parseChecklistPath(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	deleted, err := c.maintenanceService.DeleteChecklistItem(ctx.Request().Context(), maintenanceID, itemID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, dto.ChecklistItemDeletedDTO{Success: true, Deleted: *deleted}, utils.CacheControlNoStore)
}
