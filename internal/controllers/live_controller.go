package controllers

import (
	"net/http"

	"maintenance-tracker/pkg/middleware"
	appwebsocket "maintenance-tracker/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Те же правила, что и у CORS: только loopback-origin. Клиенты без Origin (не браузеры) пропускаются.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || middleware.IsLoopbackOrigin(origin)
	},
}

type LiveController struct {
	hub    *appwebsocket.Hub
	logger *zap.Logger
}

func NewLiveController(hub *appwebsocket.Hub, logger *zap.Logger) *LiveController {
	return &LiveController{hub: hub, logger: logger}
}

// ServeWs подключает клиента к ленте изменений оборудования и отделов.
func (c *LiveController) ServeWs(ctx echo.Context) error {
	logger := middleware.LoggerFrom(ctx, c.logger)

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket: не удалось установить соединение",
			zap.String("origin", ctx.Request().Header.Get(echo.HeaderOrigin)),
			zap.Error(err),
		)
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn)
	if !c.hub.Register(client) {
		conn.Close()
		return nil
	}
	go client.WritePump()
	go client.ReadPump()

	logger.Info("WebSocket: клиент подключен к ленте")
	return nil
}
