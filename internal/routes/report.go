package routes

import (
	"maintenance-tracker/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runDashboardRouter(api *echo.Group, ctrl *controllers.DashboardController) {
	api.GET("/dashboard/stats", ctrl.GetStats)
}

func runReportRouter(api *echo.Group, ctrl *controllers.ReportController) {
	api.GET("/reports/warranty-status", ctrl.GetWarrantyStatus)
	api.GET("/reports/department-summary", ctrl.GetDepartmentSummary)
	api.GET("/reports/equipment-inventory", ctrl.GetEquipmentInventory)
	api.GET("/reports/status-analysis", ctrl.GetStatusAnalysis)
	api.GET("/reports/maintenance-history", ctrl.GetMaintenanceHistory)
	api.GET("/reports/activities-log", ctrl.GetActivitiesLog)
}
