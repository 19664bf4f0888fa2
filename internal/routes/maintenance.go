package routes

import (
	"maintenance-tracker/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runMaintenanceRouter(api *echo.Group, ctrl *controllers.MaintenanceController) {
	api.GET("/maintenance", ctrl.GetMaintenance)
	api.POST("/maintenance", ctrl.CreateMaintenance)
	api.GET("/maintenance/equipment/:id", ctrl.GetHistory)
	api.GET("/maintenance/:id", ctrl.FindMaintenance)
	api.PUT("/maintenance/:id", ctrl.UpdateMaintenance)
	api.DELETE("/maintenance/:id", ctrl.DeleteMaintenance)
	api.GET("/maintenance/:id/notes", ctrl.GetNotes)
	api.POST("/maintenance/:id/notes", ctrl.CreateNote)
	api.GET("/maintenance/:id/parts", ctrl.GetParts)
	api.POST("/maintenance/:id/parts", ctrl.CreatePart)
	api.GET("/maintenance/:id/checklist", ctrl.GetChecklist)
	api.POST("/maintenance/:id/checklist", ctrl.CreateChecklistItem)
	api.GET("/maintenance/:id/checklist/:itemId", ctrl.FindChecklistItem)
	api.PUT("/maintenance/:id/checklist/:itemId", ctrl.UpdateChecklistItem)
	api.DELETE("/maintenance/:id/checklist/:itemId", ctrl.DeleteChecklistItem)
}
