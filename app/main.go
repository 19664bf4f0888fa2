// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/internal/routes"
	"maintenance-tracker/pkg/config"
	"maintenance-tracker/pkg/customvalidator"
	"maintenance-tracker/pkg/database/postgresql"
	apperrors "maintenance-tracker/pkg/errors"
	"maintenance-tracker/pkg/eventbus"
	applogger "maintenance-tracker/pkg/logger"
	"maintenance-tracker/pkg/metrics"
	appmw "maintenance-tracker/pkg/middleware"
	"maintenance-tracker/pkg/utils"
	appwebsocket "maintenance-tracker/pkg/websocket"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger()
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	// 2. Middleware: паника, request id, логгер запроса, метрики, CORS
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Pre(appmw.CORS())
	e.Use(appmw.RequestID())
	e.Use(appmw.InjectLogger(logger))
	e.Use(appmw.RequestLogger(logger))

	appMetrics := metrics.New()
	e.Use(appMetrics.Middleware())

	// 3. Валидатор
	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	// 4. База данных и миграции
	ctx := context.Background()
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgresql.Migrate(ctx, dbConn, logger); err != nil {
			logger.Fatal("ошибка применения миграций", zap.Error(err))
		}
	}

	// 5. Redis для кеша отчетов; без него сервис работает, просто без кеша
	var cacheRepo repositories.CacheRepositoryInterface
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis недоступен, отчеты не кешируются", zap.Error(err), zap.String("address", cfg.Redis.Address))
	} else {
		cacheRepo = repositories.NewRedisCacheRepository(redisClient)
	}
	cancel()

	// 6. Шина событий, лента изменений и роуты
	bus := eventbus.New(logger)
	hub := appwebsocket.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	routes.InitRouter(e, routes.Dependencies{
		DB:      dbConn,
		Cache:   cacheRepo,
		Bus:     bus,
		Hub:     hub,
		Metrics: appMetrics,
		Config:  cfg,
		Logger:  logger,
	})

	// 7. Запуск и корректная остановка
	go func() {
		logger.Info("Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	bus.Wait()
	stopHub()
	logger.Info("Сервер остановлен")
}
