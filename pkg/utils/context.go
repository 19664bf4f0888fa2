package utils

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout - предел на обработку одного запроса к БД из контроллера.
const RequestTimeout = 10 * time.Second

func ContextWithTimeout(ctx echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request().Context(), timeout)
}
