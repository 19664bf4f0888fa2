package routes

import (
	"maintenance-tracker/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runMaintenanceRequestRouter(api *echo.Group, ctrl *controllers.MaintenanceRequestController) {
	api.GET("/maintenance-requests", ctrl.GetRequests)
	api.POST("/maintenance-requests", ctrl.CreateRequest)
	api.GET("/maintenance-requests/:id", ctrl.FindRequest)
	api.PUT("/maintenance-requests/:id", ctrl.UpdateRequest)
	api.DELETE("/maintenance-requests/:id", ctrl.DeleteRequest)
}
