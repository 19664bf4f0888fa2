package controllers

import (
	"net/http"
	"strings"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/services"
	apperrors "maintenance-tracker/pkg/errors"
	"maintenance-tracker/pkg/middleware"
	"maintenance-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	specService      services.SpecificationServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	equipmentService services.EquipmentServiceInterface,
	specService services.SpecificationServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{equipmentService: equipmentService, specService: specService, logger: logger}
}

func badBody(err error) error {
	return apperrors.NewHttpError(http.StatusBadRequest, "Неверное тело запроса", err, nil)
}

// BulkAssignDepartment - POST /equipment/bulk-assign-department
func (c *EquipmentController) BulkAssignDepartment(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	var payload dto.BulkAssignDepartmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, utils.RequestTimeout)
	defer cancel()

	res, err := c.equipmentService.AssignDepartment(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, res, utils.CacheControlNoStore)
}

// UpdateStatus - PATCH /equipment/:id/status
func (c *EquipmentController) UpdateStatus(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.UpdateEquipmentStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	res, err := c.equipmentService.UpdateStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, res, utils.CacheControlNoStore)
}

// GetEquipment - GET /equipment?search=&department=&status=&warranty=expiring&service=due
func (c *EquipmentController) GetEquipment(ctx echo.Context) error {
	query := ctx.QueryParams()
	page := utils.ParseFilterFromQuery(query)

	filter := dto.EquipmentFilter{
		Search:           strings.TrimSpace(query.Get("search")),
		DepartmentID:     utils.ParseOptionalID(query.Get("department")),
		Status:           query.Get("status"),
		WarrantyExpiring: query.Get("warranty") == "expiring",
		ServiceDue:       query.Get("service") == "due",
		Limit:            uint64(page.Limit),
		Offset:           uint64(page.Offset),
	}
	if filter.Status == "all" {
		filter.Status = ""
	}

	items, total, err := c.equipmentService.GetEquipment(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, middleware.LoggerFrom(ctx, c.logger))
	}
	return utils.SuccessResponse(ctx, items, "Оборудование успешно получено", http.StatusOK, total)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.SuccessResponse(ctx, res, "Оборудование найдено", http.StatusOK)
}

// CreateEquipment - POST /equipment
func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	var payload dto.CreateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, utils.RequestTimeout)
	defer cancel()

	res, err := c.equipmentService.CreateEquipment(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusCreated, res, utils.CacheControlNoStore)
}

// UpdateEquipment - PUT /equipment/:id, частичное обновление.
func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.UpdateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, utils.RequestTimeout)
	defer cancel()

	res, err := c.equipmentService.UpdateEquipment(reqCtx, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, res, utils.CacheControlNoStore)
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	if err := c.equipmentService.DeleteEquipment(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, dto.EquipmentDeletedDTO{Success: true}, utils.CacheControlNoStore)
}

// GetSpecifications - GET /equipment/:id/specifications
func (c *EquipmentController) GetSpecifications(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	specs, err := c.specService.GetSpecifications(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, specs, "")
}

// ReplaceSpecifications - POST /equipment/:id/specifications
func (c *EquipmentController) ReplaceSpecifications(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	var payload dto.ReplaceSpecificationsDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, badBody(err), logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, utils.RequestTimeout)
	defer cancel()

	specs, err := c.specService.ReplaceSpecifications(reqCtx, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	return utils.RawResponse(ctx, http.StatusOK, specs, utils.CacheControlNoStore)
}
