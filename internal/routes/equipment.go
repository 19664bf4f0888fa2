package routes

import (
	"maintenance-tracker/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runEquipmentRouter(api *echo.Group, ctrl *controllers.EquipmentController) {
	api.GET("/equipment", ctrl.GetEquipment)
	api.POST("/equipment", ctrl.CreateEquipment)
	api.POST("/equipment/bulk-assign-department", ctrl.BulkAssignDepartment)
	api.GET("/equipment/:id", ctrl.FindEquipment)
	api.PUT("/equipment/:id", ctrl.UpdateEquipment)
	api.DELETE("/equipment/:id", ctrl.DeleteEquipment)
	api.PATCH("/equipment/:id/status", ctrl.UpdateStatus)
	api.GET("/equipment/:id/specifications", ctrl.GetSpecifications)
	api.POST("/equipment/:id/specifications", ctrl.ReplaceSpecifications)
}
