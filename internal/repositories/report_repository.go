package repositories

import (
	"context"
	"fmt"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReportRepositoryInterface interface {
	GetWarrantyItems(ctx context.Context, departmentID *uint64) ([]dto.WarrantyReportItemDTO, error)
	GetDepartmentSummary(ctx context.Context, departmentID *uint64) ([]dto.DepartmentSummaryItemDTO, error)
	GetInventoryItems(ctx context.Context, filter dto.InventoryReportFilter) ([]dto.InventoryItemDTO, error)
	GetStatusAnalysis(ctx context.Context, departmentID *uint64) (*dto.StatusAnalysisData, error)
	GetMaintenanceHistory(ctx context.Context, filter dto.MaintenanceHistoryFilter) ([]dto.MaintenanceHistoryItemDTO, error)
	GetActivityLog(ctx context.Context, filter dto.ActivityLogFilter) ([]dto.ActivityLogItemDTO, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{storage: storage, logger: logger}
}

// GetWarrantyItems - оборудование с известной датой окончания гарантии, ближайшие первыми.
func (r *ReportRepository) GetWarrantyItems(ctx context.Context, departmentID *uint64) ([]dto.WarrantyReportItemDTO, error) {
	builder := psql.Select(
		"e.id", "e.name", "e.manufacturer", "e.model", "e.tag_number", "e.serial_number", "e.status",
		"e.warranty_expiry", "e.warranty_info", "e.purchase_date", "e.purchase_cost::float8 AS purchase_cost",
		"e.department_id", "d.name AS department_name", "e.sub_unit",
	).From(equipmentTable+" e").
		LeftJoin("departments d ON d.id = e.department_id").
		Where(sq.NotEq{"e.warranty_expiry": nil}).
		OrderBy("e.warranty_expiry ASC", "e.id ASC")

	if departmentID != nil {
		builder = builder.Where(sq.Eq{"e.department_id": *departmentID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.WarrantyReportItemDTO])
}

// GetDepartmentSummary - по строке на отдел: оборудование по статусам, стоимость, число обслуживаний.
func (r *ReportRepository) GetDepartmentSummary(ctx context.Context, departmentID *uint64) ([]dto.DepartmentSummaryItemDTO, error) {
	builder := psql.Select(
		"d.id", "d.name", "d.manager", "d.email", "d.phone", "d.description",
		"d.budget::float8 AS budget", "d.employees",
		"COUNT(e.id) AS equipment_count",
		"COALESCE(SUM(e.purchase_cost), 0)::float8 AS total_value",
	).
		Column(sq.Expr("COUNT(e.id) FILTER (WHERE e.status = ?) AS operational_count", constants.EquipmentOperational.String())).
		Column(sq.Expr("COUNT(e.id) FILTER (WHERE e.status = ?) AS maintenance_count", constants.EquipmentMaintenance.String())).
		Column(sq.Expr("COUNT(e.id) FILTER (WHERE e.status = ?) AS broken_count", constants.EquipmentBroken.String())).
		Column(sq.Expr("COUNT(e.id) FILTER (WHERE e.status = ?) AS retired_count", constants.EquipmentRetired.String())).
		Column(`(SELECT COUNT(*) FROM maintenance m JOIN equipment me ON me.id = m.equipment_id
			WHERE me.department_id = d.id) AS total_maintenance_count`).
		From(departmentTable+" d").
		LeftJoin("equipment e ON e.department_id = d.id").
		GroupBy("d.id").
		OrderBy("d.name ASC", "d.id ASC")

	if departmentID != nil {
		builder = builder.Where(sq.Eq{"d.id": *departmentID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dto.DepartmentSummaryItemDTO])
}

// collectReportRows выполняет запрос и собирает строки в T по именам колонок.
func collectReportRows[T any](ctx context.Context, q Querier, builder sq.Sqlizer) ([]T, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

func (r *ReportRepository) GetInventoryItems(ctx context.Context, filter dto.InventoryReportFilter) ([]dto.InventoryItemDTO, error) {
	builder := psql.Select(
		"e.id", "e.name", "e.manufacturer", "e.model", "e.tag_number", "e.serial_number", "e.status",
		"e.purchase_cost::float8 AS purchase_cost", "e.purchase_date", "e.warranty_expiry", "e.warranty_info",
		"e.department_id", "d.name AS department_name", "e.sub_unit", "e.date_of_installation",
		"e.owner", "e.maintained_by",
	).From(equipmentTable+" e").
		LeftJoin("departments d ON d.id = e.department_id").
		OrderBy("e.created_at DESC", "e.id DESC")

	if filter.DepartmentID != nil {
		builder = builder.Where(sq.Eq{"e.department_id": *filter.DepartmentID})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"e.status": filter.Status})
	}
	return collectReportRows[dto.InventoryItemDTO](ctx, r.storage, builder)
}

// GetStatusAnalysis - четыре выборки по одному и тому же набору оборудования.
func (r *ReportRepository) GetStatusAnalysis(ctx context.Context, departmentID *uint64) (*dto.StatusAnalysisData, error) {
	scope := func(b sq.SelectBuilder) sq.SelectBuilder {
		if departmentID != nil {
			return b.Where(sq.Eq{"e.department_id": *departmentID})
		}
		return b
	}

	var (
		data dto.StatusAnalysisData
		err  error
	)
	data.Items, err = collectReportRows[dto.StatusAnalysisItemDTO](ctx, r.storage, scope(
		psql.Select("e.id", "e.name", "e.status", "e.purchase_date", "d.name AS department_name").
			From(equipmentTable+" e").
			LeftJoin("departments d ON d.id = e.department_id").
			OrderBy("e.id ASC"),
	))
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки оборудования для анализа статусов: %w", err)
	}

	data.StatusDistribution, err = collectReportRows[dto.StatusCountDTO](ctx, r.storage, scope(
		psql.Select("e.status", "COUNT(*) AS count", "COALESCE(SUM(e.purchase_cost), 0)::float8 AS total_value").
			From(equipmentTable+" e").
			GroupBy("e.status").
			OrderBy("e.status ASC"),
	))
	if err != nil {
		return nil, fmt.Errorf("ошибка расчета распределения статусов: %w", err)
	}

	data.StatusByDepartment, err = collectReportRows[dto.StatusDepartmentCountDTO](ctx, r.storage, scope(
		psql.Select().
			Column(sq.Expr("COALESCE(d.name, ?) AS department", constants.UnassignedDepartment)).
			Columns("e.status", "COUNT(*) AS count").
			From(equipmentTable+" e").
			LeftJoin("departments d ON d.id = e.department_id").
			GroupBy("d.name", "e.status").
			OrderBy("department ASC", "e.status ASC"),
	))
	if err != nil {
		return nil, fmt.Errorf("ошибка расчета статусов по отделам: %w", err)
	}

	data.MaintenanceByStatus, err = collectReportRows[dto.MaintenanceByStatusDTO](ctx, r.storage, scope(
		psql.Select("e.status", "COUNT(m.id) AS maintenance_count", "COALESCE(AVG(m.cost), 0)::float8 AS avg_cost").
			From(equipmentTable+" e").
			LeftJoin("maintenance m ON m.equipment_id = e.id").
			GroupBy("e.status").
			OrderBy("e.status ASC"),
	))
	if err != nil {
		return nil, fmt.Errorf("ошибка расчета обслуживания по статусам: %w", err)
	}
	return &data, nil
}

// GetMaintenanceHistory - записи обслуживания с оборудованием и отделом, новые сверху.
func (r *ReportRepository) GetMaintenanceHistory(ctx context.Context, filter dto.MaintenanceHistoryFilter) ([]dto.MaintenanceHistoryItemDTO, error) {
	builder := psql.Select(
		"m.id", "m.type", "m.status", "m.priority", "m.date", "m.scheduled_date", "m.completed_date",
		"m.technician", "m.cost::float8 AS cost", "m.description", "m.notes",
		"m.equipment_id", "e.name AS equipment_name", "e.tag_number AS equipment_tag",
		"d.id AS department_id", "d.name AS department_name",
	).From("maintenance m").
		LeftJoin("equipment e ON e.id = m.equipment_id").
		LeftJoin("departments d ON d.id = e.department_id").
		OrderBy("m.date DESC", "m.id DESC")

	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"m.type": filter.Type})
	}
	if filter.StartDate != nil {
		builder = builder.Where(sq.GtOrEq{"m.date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(sq.LtOrEq{"m.date": *filter.EndDate})
	}
	if filter.DepartmentID != nil {
		builder = builder.Where(sq.Eq{"e.department_id": *filter.DepartmentID})
	}
	return collectReportRows[dto.MaintenanceHistoryItemDTO](ctx, r.storage, builder)
}

// GetActivityLog - журнал событий, новые сверху; записи без даты в конце.
func (r *ReportRepository) GetActivityLog(ctx context.Context, filter dto.ActivityLogFilter) ([]dto.ActivityLogItemDTO, error) {
	builder := psql.Select(
		"a.id", "a.type", "a.description", "a.date", "a.created_at", "a.equipment_id",
		"e.name AS equipment_name", "e.tag_number AS equipment_tag",
		"a.department_id", "d.name AS department_name",
	).From("activities a").
		LeftJoin("equipment e ON e.id = a.equipment_id").
		LeftJoin("departments d ON d.id = a.department_id").
		OrderBy("a.date DESC NULLS LAST", "a.created_at DESC", "a.id DESC")

	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"a.type": filter.Type})
	}
	if filter.StartDate != nil {
		builder = builder.Where(sq.GtOrEq{"a.date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(sq.LtOrEq{"a.date": *filter.EndDate})
	}
	if filter.DepartmentID != nil {
		builder = builder.Where(sq.Eq{"a.department_id": *filter.DepartmentID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	return collectReportRows[dto.ActivityLogItemDTO](ctx, r.storage, builder)
}
