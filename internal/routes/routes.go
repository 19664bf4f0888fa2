package routes

import (
	"maintenance-tracker/internal/controllers"
	"maintenance-tracker/internal/listeners"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/internal/services"
	"maintenance-tracker/pkg/config"
	"maintenance-tracker/pkg/eventbus"
	"maintenance-tracker/pkg/metrics"
	appwebsocket "maintenance-tracker/pkg/websocket"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Dependencies - все, что нужно роутеру от main. Cache может быть nil (Redis выключен),
// Hub - nil, если лента событий не нужна.
type Dependencies struct {
	DB      *pgxpool.Pool
	Cache   repositories.CacheRepositoryInterface
	Bus     *eventbus.Bus
	Hub     *appwebsocket.Hub
	Metrics *metrics.Metrics
	Config  *config.Config
	Logger  *zap.Logger
}

// Controllers - готовые обработчики; в тестах собираются на фейковых сервисах.
type Controllers struct {
	Equipment   *controllers.EquipmentController
	Maintenance *controllers.MaintenanceController
	Requests    *controllers.MaintenanceRequestController
	Dashboard   *controllers.DashboardController
	Department  *controllers.DepartmentController
	Report      *controllers.ReportController
	Health      *controllers.HealthController
	Live        *controllers.LiveController
}

func InitRouter(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- 1. РЕПОЗИТОРИИ ---
	txManager := repositories.NewTxManager(deps.DB)
	equipmentRepo := repositories.NewEquipmentRepository(deps.DB, logger)
	departmentRepo := repositories.NewDepartmentRepository(deps.DB, logger)
	specRepo := repositories.NewSpecificationRepository(deps.DB, logger)
	maintenanceRepo := repositories.NewMaintenanceRepository(deps.DB, logger)
	requestRepo := repositories.NewMaintenanceRequestRepository(deps.DB, logger)
	activityRepo := repositories.NewActivityRepository(deps.DB, logger)
	dashboardRepo := repositories.NewDashboardRepository(deps.DB, logger)
	reportRepo := repositories.NewReportRepository(deps.DB, logger)

	// --- 2. СЕРВИСЫ ---
	equipmentService := services.NewEquipmentService(
		txManager, equipmentRepo, departmentRepo, activityRepo, deps.Bus, deps.Config.Dashboard, nil, logger,
	)
	specService := services.NewSpecificationService(txManager, specRepo, logger)
	maintenanceService := services.NewMaintenanceService(
		txManager, maintenanceRepo, equipmentRepo, activityRepo, deps.Bus, deps.Config.Dashboard, nil, logger,
	)
	requestService := services.NewMaintenanceRequestService(txManager, requestRepo, equipmentRepo, nil, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, deps.Config.Dashboard, nil, logger)
	departmentService := services.NewDepartmentService(departmentRepo, deps.Bus, logger)
	reportService := services.NewReportService(reportRepo, deps.Cache, deps.Config.Reports, nil, logger)

	// --- 3. СЛУШАТЕЛИ СОБЫТИЙ ---
	listeners.NewReportCacheListener(reportService, logger).Register(deps.Bus)
	if deps.Hub != nil {
		listeners.NewLiveFeedListener(deps.Hub, logger).Register(deps.Bus)
	}

	// --- 4. КОНТРОЛЛЕРЫ ---
	ctrls := Controllers{
		Equipment:   controllers.NewEquipmentController(equipmentService, specService, logger),
		Maintenance: controllers.NewMaintenanceController(maintenanceService, logger),
		Requests:    controllers.NewMaintenanceRequestController(requestService, logger),
		Dashboard:   controllers.NewDashboardController(dashboardService, logger),
		Department:  controllers.NewDepartmentController(departmentService, logger),
		Report:      controllers.NewReportController(reportService, logger),
		Health:      controllers.NewHealthController(deps.DB, logger),
	}
	if deps.Hub != nil {
		ctrls.Live = controllers.NewLiveController(deps.Hub, logger)
	}

	RegisterRoutes(e, ctrls, deps.Metrics)
	logger.Info("InitRouter: Создание маршрутов завершено")
}

// RegisterRoutes вешает все маршруты; API живет под /api.
func RegisterRoutes(e *echo.Echo, ctrls Controllers, m *metrics.Metrics) {
	e.GET("/health", ctrls.Health.Health)
	if m != nil {
		e.GET("/metrics", m.Handler())
	}

	api := e.Group("/api")
	runEquipmentRouter(api, ctrls.Equipment)
	runMaintenanceRouter(api, ctrls.Maintenance)
	runMaintenanceRequestRouter(api, ctrls.Requests)
	runDepartmentRouter(api, ctrls.Department)
	runDashboardRouter(api, ctrls.Dashboard)
	runReportRouter(api, ctrls.Report)
	if ctrls.Live != nil {
		runLiveRouter(api, ctrls.Live)
	}
}
