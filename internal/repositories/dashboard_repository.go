package repositories

import (
	"context"
	"time"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// EquipmentTotals - счетчики оборудования по статусам одним проходом.
type EquipmentTotals struct {
	Total       uint64
	Operational uint64
	Maintenance uint64
	Broken      uint64
	Retired     uint64
	Value       float64
	AverageAge  null.Float64
}

type DashboardRepositoryInterface interface {
	GetEquipmentTotals(ctx context.Context, now time.Time) (*EquipmentTotals, error)
	CountDepartments(ctx context.Context) (uint64, error)
	CountMaintenance(ctx context.Context) (uint64, error)
	CountWarrantyExpiring(ctx context.Context, from, until time.Time) (uint64, error)
	CountServiceDue(ctx context.Context, until time.Time) (uint64, error)
	GetEquipmentByDepartment(ctx context.Context, limit uint64) ([]dto.DepartmentCountDTO, error)
	GetUpcomingMaintenance(ctx context.Context, limit uint64) ([]dto.UpcomingMaintenanceDTO, error)
	GetRecentActivities(ctx context.Context, limit uint64) ([]dto.ActivityItemDTO, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func (r *DashboardRepository) count(ctx context.Context, b sq.SelectBuilder) (uint64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// GetEquipmentTotals. Возраст считается от даты установки, при ее отсутствии - от года выпуска.
func (r *DashboardRepository) GetEquipmentTotals(ctx context.Context, now time.Time) (*EquipmentTotals, error) {
	query, args, err := psql.Select("COUNT(*)").
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", constants.EquipmentOperational.String())).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", constants.EquipmentMaintenance.String())).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", constants.EquipmentBroken.String())).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status = ?)", constants.EquipmentRetired.String())).
		Column("COALESCE(SUM(purchase_cost), 0)::float8").
		Column(sq.Expr(`AVG(COALESCE(
			EXTRACT(EPOCH FROM (?::timestamptz - date_of_installation)) / 31557600.0,
			EXTRACT(YEAR FROM ?::timestamptz) - year_of_manufacture
		))::float8`, now, now)).
		From(equipmentTable).
		ToSql()
	if err != nil {
		return nil, err
	}

	t := &EquipmentTotals{}
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&t.Total, &t.Operational, &t.Maintenance, &t.Broken, &t.Retired, &t.Value, &t.AverageAge,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *DashboardRepository) CountDepartments(ctx context.Context) (uint64, error) {
	return r.count(ctx, psql.Select("COUNT(*)").From(departmentTable))
}

func (r *DashboardRepository) CountMaintenance(ctx context.Context) (uint64, error) {
	return r.count(ctx, psql.Select("COUNT(*)").From("maintenance"))
}

func (r *DashboardRepository) CountWarrantyExpiring(ctx context.Context, from, until time.Time) (uint64, error) {
	return r.count(ctx, psql.Select("COUNT(*)").From(equipmentTable).Where(sq.And{
		sq.GtOrEq{"warranty_expiry": from},
		sq.LtOrEq{"warranty_expiry": until},
	}))
}

// CountServiceDue - единицы оборудования, у которых есть плановое обслуживание со сроком до until
// (включая просроченные).
func (r *DashboardRepository) CountServiceDue(ctx context.Context, until time.Time) (uint64, error) {
	return r.count(ctx, psql.Select("COUNT(DISTINCT equipment_id)").From("maintenance").Where(sq.And{
		sq.Eq{"status": constants.MaintenanceStatusScheduled},
		sq.Expr("COALESCE(scheduled_date, date) <= ?", until),
	}))
}

func (r *DashboardRepository) GetEquipmentByDepartment(ctx context.Context, limit uint64) ([]dto.DepartmentCountDTO, error) {
	query, args, err := psql.Select().
		Column(sq.Expr("COALESCE(d.name, ?) AS department", constants.UnassignedDepartment)).
		Column("COUNT(e.id) AS count").
		From(equipmentTable+" e").
		LeftJoin("departments d ON d.id = e.department_id").
		GroupBy("d.id", "d.name").
		OrderBy("count DESC", "department ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.DepartmentCountDTO])
}

func (r *DashboardRepository) GetUpcomingMaintenance(ctx context.Context, limit uint64) ([]dto.UpcomingMaintenanceDTO, error) {
	query, args, err := psql.Select(
		"m.id",
		"m.equipment_id",
		"COALESCE(e.name, 'Unknown Equipment') AS equipment_name",
		"m.type AS maintenance_type",
		"COALESCE(m.scheduled_date, m.date) AS due_date",
		"m.status",
	).From("maintenance m").
		LeftJoin("equipment e ON e.id = m.equipment_id").
		Where(sq.Eq{"m.status": constants.MaintenanceStatusScheduled}).
		OrderBy("due_date ASC", "m.id ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.UpcomingMaintenanceDTO])
}

// GetRecentActivities: записи без даты берут created_at.
func (r *DashboardRepository) GetRecentActivities(ctx context.Context, limit uint64) ([]dto.ActivityItemDTO, error) {
	query, args, err := psql.Select(
		"id", "type", "description", "COALESCE(date, created_at) AS date",
	).From("activities").
		OrderBy("date DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.ActivityItemDTO])
}
