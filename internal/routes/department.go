package routes

import (
	"maintenance-tracker/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runDepartmentRouter(api *echo.Group, ctrl *controllers.DepartmentController) {
	api.GET("/departments", ctrl.GetDepartments)
	api.POST("/departments", ctrl.CreateDepartment)
	api.GET("/departments/:id", ctrl.FindDepartment)
	api.PUT("/departments/:id", ctrl.UpdateDepartment)
	api.DELETE("/departments/:id", ctrl.DeleteDepartment)
}
