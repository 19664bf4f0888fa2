package controllers

import (
	"fmt"
	"net/http"
	"time"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/services"
	"maintenance-tracker/pkg/constants"
	"maintenance-tracker/pkg/middleware"
	"maintenance-tracker/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateFmt          = "02.01.2006"
	activityLogLimit = 100
)

var (
	warrantyHeaders = []interface{}{
		"ID", "Наименование", "Производитель", "Модель", "Инв. номер", "Серийный номер", "Статус",
		"Отдел", "Окончание гарантии", "Осталось дней", "Категория гарантии", "Стоимость",
	}
	departmentHeaders = []interface{}{
		"ID", "Отдел", "Руководитель", "Оборудование", "Исправно", "На обслуживании",
		"Неисправно", "Списано", "Стоимость", "Обслуживаний",
	}
	inventoryHeaders = []interface{}{
		"ID", "Наименование", "Производитель", "Модель", "Инв. номер", "Серийный номер", "Статус",
		"Отдел", "Подразделение", "Дата покупки", "Стоимость", "Окончание гарантии", "Владелец",
	}
	statusAnalysisHeaders     = []interface{}{"ID", "Наименование", "Статус", "Отдел", "Дата покупки", "Возраст, лет", "Возрастная группа"}
	maintenanceHistoryHeaders = []interface{}{
		"ID", "Дата", "Тип", "Статус", "Приоритет", "Оборудование", "Инв. номер", "Отдел",
		"Исполнитель", "Стоимость", "Описание",
	}
	activityLogHeaders = []interface{}{"ID", "Дата", "Тип", "Описание", "Оборудование", "Отдел"}
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetWarrantyStatus - GET /reports/warranty-status?departmentId=&warrantyStatus=&format=xlsx
func (c *ReportController) GetWarrantyStatus(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)
	filter := dto.WarrantyReportFilter{
		DepartmentID:   utils.ParseOptionalID(ctx.QueryParam("departmentId")),
		WarrantyStatus: ctx.QueryParam("warrantyStatus"),
	}
	logger.Debug("Запрос отчета по гарантиям", zap.Any("filter", filter))

	report, err := c.reportService.GetWarrantyReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	if ctx.QueryParam("format") == "xlsx" {
		rows := make([][]interface{}, 0, len(report.Data))
		for _, item := range report.Data {
			rows = append(rows, warrantyRow(item))
		}
		return c.respondWithXLSX(ctx, "Гарантии", "warranty", warrantyHeaders, rows)
	}
	return utils.RawResponse(ctx, http.StatusOK, report, "")
}

// GetDepartmentSummary - GET /reports/department-summary?departmentId=&format=xlsx
func (c *ReportController) GetDepartmentSummary(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	report, err := c.reportService.GetDepartmentReport(ctx.Request().Context(), utils.ParseOptionalID(ctx.QueryParam("departmentId")))
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	if ctx.QueryParam("format") == "xlsx" {
		rows := make([][]interface{}, 0, len(report.Data))
		for _, item := range report.Data {
			rows = append(rows, []interface{}{
				item.ID, item.Name, item.Manager.String, item.EquipmentCount, item.OperationalCount,
				item.MaintenanceCount, item.BrokenCount, item.RetiredCount, item.TotalValue,
				item.TotalMaintenanceCount,
			})
		}
		return c.respondWithXLSX(ctx, "Отделы", "departments", departmentHeaders, rows)
	}
	return utils.RawResponse(ctx, http.StatusOK, report, "")
}

// GetEquipmentInventory - GET /reports/equipment-inventory?departmentId=&status=&format=xlsx
func (c *ReportController) GetEquipmentInventory(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)
	filter := dto.InventoryReportFilter{
		DepartmentID: utils.ParseOptionalID(ctx.QueryParam("departmentId")),
		Status:       ctx.QueryParam("status"),
	}
	if filter.Status == "all" {
		filter.Status = ""
	}

	report, err := c.reportService.GetInventoryReport(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	if ctx.QueryParam("format") == "xlsx" {
		rows := make([][]interface{}, 0, len(report.Data))
		for _, item := range report.Data {
			rows = append(rows, []interface{}{
				item.ID, item.Name, item.Manufacturer.String, item.Model.String, item.TagNumber.String,
				item.SerialNumber.String, item.Status, departmentLabel(item.DepartmentName), item.SubUnit.String,
				nullDate(item.PurchaseDate), nullMoney(item.PurchaseCost), nullDate(item.WarrantyExpiry), item.Owner.String,
			})
		}
		return c.respondWithXLSX(ctx, "Реестр", "inventory", inventoryHeaders, rows)
	}
	return utils.RawResponse(ctx, http.StatusOK, report, "")
}

// GetStatusAnalysis - GET /reports/status-analysis?departmentId=&format=xlsx
func (c *ReportController) GetStatusAnalysis(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	report, err := c.reportService.GetStatusAnalysis(ctx.Request().Context(), utils.ParseOptionalID(ctx.QueryParam("departmentId")))
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	if ctx.QueryParam("format") == "xlsx" {
		rows := make([][]interface{}, 0, len(report.Data))
		for _, item := range report.Data {
			rows = append(rows, []interface{}{
				item.ID, item.Name, item.Status, departmentLabel(item.DepartmentName),
				nullDate(item.PurchaseDate), item.AgeInYears, item.AgeCategory,
			})
		}
		return c.respondWithXLSX(ctx, "Статусы", "status_analysis", statusAnalysisHeaders, rows)
	}
	return utils.RawResponse(ctx, http.StatusOK, report, "")
}

// GetMaintenanceHistory - GET /reports/maintenance-history?departmentId=&type=&startDate=&endDate=&format=xlsx
func (c *ReportController) GetMaintenanceHistory(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	start, end, err := parseDateRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	filter := dto.MaintenanceHistoryFilter{
		DepartmentID: utils.ParseOptionalID(ctx.QueryParam("departmentId")),
		Type:         ctx.QueryParam("type"),
		StartDate:    start,
		EndDate:      end,
	}
	if filter.Type == "all" {
		filter.Type = ""
	}

	report, err := c.reportService.GetMaintenanceHistory(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	if ctx.QueryParam("format") == "xlsx" {
		rows := make([][]interface{}, 0, len(report.Data))
		for _, item := range report.Data {
			rows = append(rows, []interface{}{
				item.ID, item.Date.Format(dateFmt), item.Type, item.Status.String, item.Priority.String,
				item.EquipmentName.String, item.EquipmentTag.String, departmentLabel(item.DepartmentName),
				item.Technician.String, nullMoney(item.Cost), item.Description.String,
			})
		}
		return c.respondWithXLSX(ctx, "Обслуживание", "maintenance_history", maintenanceHistoryHeaders, rows)
	}
	return utils.RawResponse(ctx, http.StatusOK, report, "")
}

// GetActivitiesLog - GET /reports/activities-log?departmentId=&type=&startDate=&endDate=&limit=&format=xlsx
func (c *ReportController) GetActivitiesLog(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	start, end, err := parseDateRange(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}
	filter := dto.ActivityLogFilter{
		DepartmentID: utils.ParseOptionalID(ctx.QueryParam("departmentId")),
		Type:         ctx.QueryParam("type"),
		StartDate:    start,
		EndDate:      end,
		Limit:        utils.ParsePositive(ctx.QueryParam("limit"), activityLogLimit),
	}
	if filter.Type == "all" {
		filter.Type = ""
	}
	if filter.Limit > utils.MaxLimit {
		filter.Limit = utils.MaxLimit
	}

	report, err := c.reportService.GetActivityLog(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, logger)
	}

	if ctx.QueryParam("format") == "xlsx" {
		rows := make([][]interface{}, 0, len(report.Data))
		for _, item := range report.Data {
			rows = append(rows, []interface{}{
				item.ID, nullDate(item.Date), item.Type, item.Description.String,
				item.EquipmentName.String, departmentLabel(item.DepartmentName),
			})
		}
		return c.respondWithXLSX(ctx, "События", "activities", activityLogHeaders, rows)
	}
	return utils.RawResponse(ctx, http.StatusOK, report, "")
}

func parseDateRange(ctx echo.Context) (*time.Time, *time.Time, error) {
	start, err := utils.ParseOptionalDate(ctx.QueryParam("startDate"), "startDate", false)
	if err != nil {
		return nil, nil, err
	}
	end, err := utils.ParseOptionalDate(ctx.QueryParam("endDate"), "endDate", true)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func departmentLabel(name null.String) string {
	if name.Valid && name.String != "" {
		return name.String
	}
	return constants.UnassignedDepartment
}

func nullDate(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(dateFmt)
}

func warrantyRow(item dto.WarrantyReportItemDTO) []interface{} {
	return []interface{}{
		item.ID, item.Name, item.Manufacturer.String, item.Model.String, item.TagNumber.String,
		item.SerialNumber.String, item.Status, departmentLabel(item.DepartmentName), item.WarrantyExpiry.Format(dateFmt),
		item.DaysUntilExpiry, item.WarrantyStatus, nullMoney(item.PurchaseCost),
	}
}

func nullMoney(v null.Float64) interface{} {
	if !v.Valid {
		return ""
	}
	return v.Float64
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, sheet, name string, headers []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	f.SetSheetRow(sheet, "A1", &headers)
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", lastHeader, style)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 35)
	f.SetColWidth(sheet, "C", "H", 20)

	fileName := fmt.Sprintf("%s_report_%s.xlsx", name, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
