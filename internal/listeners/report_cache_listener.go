package listeners

import (
	"context"

	"maintenance-tracker/internal/events"
	"maintenance-tracker/pkg/eventbus"

	"go.uber.org/zap"
)

// ReportCacheInvalidator - то, что умеет сбросить закешированные отчеты.
type ReportCacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// ReportCacheListener сбрасывает кеш отчетов при любом изменении оборудования или отделов.
type ReportCacheListener struct {
	reports ReportCacheInvalidator
	logger  *zap.Logger
}

func NewReportCacheListener(reports ReportCacheInvalidator, logger *zap.Logger) *ReportCacheListener {
	return &ReportCacheListener{reports: reports, logger: logger}
}

func (l *ReportCacheListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.EquipmentChangedEventName, l.Handle)
	bus.Subscribe(events.DepartmentChangedEventName, l.Handle)
}

func (l *ReportCacheListener) Handle(ctx context.Context, event eventbus.Event) error {
	l.logger.Debug("Сброс кеша отчетов", zap.String("event", event.Name()))
	return l.reports.InvalidateCache(ctx)
}
