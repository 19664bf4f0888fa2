package services

import (
	"context"
	"math"
	"sync"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/pkg/config"
	apperrors "maintenance-tracker/pkg/errors"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type DashboardServiceInterface interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	repo   repositories.DashboardRepositoryInterface
	cfg    config.DashboardConfig
	now    Clock
	logger *zap.Logger
}

func NewDashboardService(repo repositories.DashboardRepositoryInterface, cfg config.DashboardConfig, now Clock, logger *zap.Logger) *DashboardService {
	return &DashboardService{repo: repo, cfg: cfg, now: defaultClock(now), logger: logger}
}

// GetDashboardStats собирает показатели на текущий момент. Независимые запросы идут
// параллельно; ошибка любого из них - ошибка всего дашборда.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := s.now()

	var (
		wg          sync.WaitGroup
		totals      *repositories.EquipmentTotals
		departments uint64
		maintenance uint64
		warranty    uint64
		serviceDue  uint64
		byDept      []dto.DepartmentCountDTO
		upcoming    []dto.UpcomingMaintenanceDTO
		activities  []dto.ActivityItemDTO

		errs []error
		mu   sync.Mutex
	)

	addTask := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	addTask(func() (err error) { totals, err = s.repo.GetEquipmentTotals(ctx, now); return })
	addTask(func() (err error) { departments, err = s.repo.CountDepartments(ctx); return })
	addTask(func() (err error) { maintenance, err = s.repo.CountMaintenance(ctx); return })
	addTask(func() (err error) {
		warranty, err = s.repo.CountWarrantyExpiring(ctx, now, now.Add(s.cfg.WarrantyWindow))
		return
	})
	addTask(func() (err error) {
		serviceDue, err = s.repo.CountServiceDue(ctx, now.Add(s.cfg.ServiceWindow))
		return
	})
	addTask(func() (err error) { byDept, err = s.repo.GetEquipmentByDepartment(ctx, s.cfg.DepartmentLimit); return })
	addTask(func() (err error) { upcoming, err = s.repo.GetUpcomingMaintenance(ctx, s.cfg.UpcomingLimit); return })
	addTask(func() (err error) { activities, err = s.repo.GetRecentActivities(ctx, s.cfg.ActivityLimit); return })

	wg.Wait()

	if len(errs) > 0 {
		s.logger.Error("Ошибка загрузки дашборда", zap.Errors("errors", errs))
		return nil, apperrors.NewInternalError("Ошибка загрузки дашборда")
	}

	if byDept == nil {
		byDept = []dto.DepartmentCountDTO{}
	}
	if upcoming == nil {
		upcoming = []dto.UpcomingMaintenanceDTO{}
	}
	if activities == nil {
		activities = []dto.ActivityItemDTO{}
	}

	return &dto.DashboardStatsDTO{
		TotalEquipment:      totals.Total,
		Operational:         totals.Operational,
		UnderMaintenance:    totals.Maintenance,
		Broken:              totals.Broken,
		WarrantyExpiring:    warranty,
		ServiceDue:          serviceDue,
		TotalDepartments:    departments,
		MaintenanceRecords:  maintenance,
		EquipmentValue:      roundTo(totals.Value, 2),
		AverageEquipmentAge: roundNull(totals.AverageAge, 1),
		StatusBreakdown: dto.StatusBreakdownDTO{
			Operational: totals.Operational,
			Maintenance: totals.Maintenance,
			Broken:      totals.Broken,
			Retired:     totals.Retired,
		},
		EquipmentByDepartment: byDept,
		UpcomingMaintenance:   upcoming,
		RecentActivities:      activities,
	}, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func roundNull(v null.Float64, places int) null.Float64 {
	if !v.Valid {
		return v
	}
	return null.Float64From(roundTo(v.Float64, places))
}
