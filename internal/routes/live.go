package routes

import (
	"maintenance-tracker/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runLiveRouter(api *echo.Group, ctrl *controllers.LiveController) {
	api.GET("/events/ws", ctrl.ServeWs)
}
