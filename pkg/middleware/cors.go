package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
	corsMaxAge       = "86400"
)

var loopbackHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// IsLoopbackOrigin - единственная политика CORS: разрешаем только локальные адреса на любом порту.
// Сравнивается именно host из Origin, а не подстрока, поэтому "localhost.evil.com" не проходит.
func IsLoopbackOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" {
		return false
	}
	_, ok := loopbackHosts[strings.ToLower(u.Hostname())]
	return ok
}

// CORS применяет политику на краю сервера, для всех маршрутов сразу.
// Preflight от локального источника завершается здесь же кодом 204.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			origin := req.Header.Get(echo.HeaderOrigin)
			res := c.Response()
			res.Header().Add(echo.HeaderVary, echo.HeaderOrigin)

			if !IsLoopbackOrigin(origin) {
				return next(c)
			}

			h := res.Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)

			if req.Method == http.MethodOptions {
				h.Set(echo.HeaderAccessControlMaxAge, corsMaxAge)
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
