package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	"maintenance-tracker/pkg/constants"
	apperrors "maintenance-tracker/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const equipmentTable = "equipment"

// numeric в БД, float8 в Go.
var equipmentColumns = []string{
	"id", "name", "manufacturer", "country_of_origin", "year_of_manufacture", "tag_number",
	"owner", "maintained_by", "warranty_info", "warranty_expiry", "date_of_installation",
	"department_id", "sub_unit", "model", "mfg_number", "serial_number", "status",
	"purchase_type", "purchase_date", "purchase_order_number", "purchase_cost::float8 AS purchase_cost",
	"photo_url", "has_service_contract", "service_organization", "created_at", "updated_at",
}

func prefixedEquipmentColumns(alias string) []string {
	cols := make([]string, len(equipmentColumns))
	for i, c := range equipmentColumns {
		if strings.HasPrefix(c, "purchase_cost") {
			cols[i] = alias + ".purchase_cost::float8 AS purchase_cost"
			continue
		}
		cols[i] = alias + "." + c
	}
	return cols
}

type EquipmentRepositoryInterface interface {
	EquipmentExists(ctx context.Context, tx pgx.Tx, id uint64) (bool, error)
	CreateEquipment(ctx context.Context, tx pgx.Tx, equipment entities.Equipment) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, tx pgx.Tx, id uint64, changes map[string]interface{}, at time.Time) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	AssignDepartment(ctx context.Context, tx pgx.Tx, departmentID uint64, equipmentIDs []uint64, at time.Time) ([]uint64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.EquipmentStatus, at time.Time) (*entities.Equipment, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.EquipmentView, error)
	GetEquipment(ctx context.Context, filter dto.EquipmentFilter) ([]entities.EquipmentView, uint64, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

func (r *EquipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func collectEquipment(rows pgx.Rows, err error) (*entities.Equipment, error) {
	if err != nil {
		return nil, err
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.Equipment])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrEquipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// EquipmentExists блокирует строку до конца транзакции, как и DepartmentExists.
func (r *EquipmentRepository) EquipmentExists(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	var found uint64
	err := r.getQuerier(tx).QueryRow(ctx, `SELECT id FROM equipment WHERE id = $1 FOR KEY SHARE`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка проверки оборудования: %w", err)
	}
	return true, nil
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) (*entities.Equipment, error) {
	query, args, err := psql.Insert(equipmentTable).
		Columns(
			"name", "manufacturer", "country_of_origin", "year_of_manufacture", "tag_number", "owner",
			"maintained_by", "warranty_info", "warranty_expiry", "date_of_installation", "department_id",
			"sub_unit", "model", "mfg_number", "serial_number", "status", "purchase_type", "purchase_date",
			"purchase_order_number", "purchase_cost", "photo_url", "has_service_contract", "service_organization",
		).
		Values(
			e.Name, e.Manufacturer, e.CountryOfOrigin, e.YearOfManufacture, e.TagNumber, e.Owner,
			e.MaintainedBy, e.WarrantyInfo, e.WarrantyExpiry, e.DateOfInstallation, e.DepartmentID,
			e.SubUnit, e.Model, e.MfgNumber, e.SerialNumber, e.Status, e.PurchaseType, e.PurchaseDate,
			e.PurchaseOrderNumber, e.PurchaseCost, e.PhotoURL, e.HasServiceContract, e.ServiceOrganization,
		).
		Suffix("RETURNING " + strings.Join(equipmentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	created, err := collectEquipment(r.getQuerier(tx).Query(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания оборудования: %w", err)
	}
	return created, nil
}

// UpdateEquipment применяет только переданные колонки; пустой набор перечитывает карточку.
func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, tx pgx.Tx, id uint64, changes map[string]interface{}, at time.Time) (*entities.Equipment, error) {
	var builder sq.Sqlizer
	if len(changes) == 0 {
		builder = psql.Select(equipmentColumns...).From(equipmentTable).Where(sq.Eq{"id": id})
	} else {
		builder = psql.Update(equipmentTable).
			SetMap(changes).
			Set("updated_at", at).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING " + strings.Join(equipmentColumns, ", "))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return collectEquipment(r.getQuerier(tx).Query(ctx, query, args...))
}

// DeleteEquipment: характеристики и записи обслуживания удаляются каскадом.
func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query, args, err := psql.Delete(equipmentTable).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(equipmentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectEquipment(r.getQuerier(tx).Query(ctx, query, args...))
}

// AssignDepartment закрепляет отдел за оборудованием одним UPDATE.
// Пустой список ids - все оборудование без отдела. Возвращает id реально обновленных строк.
func (r *EquipmentRepository) AssignDepartment(ctx context.Context, tx pgx.Tx, departmentID uint64, equipmentIDs []uint64, at time.Time) ([]uint64, error) {
	builder := psql.Update(equipmentTable).
		Set("department_id", departmentID).
		Set("updated_at", at).
		Suffix("RETURNING id")

	if len(equipmentIDs) > 0 {
		builder = builder.Where(sq.Eq{"id": equipmentIDs})
	} else {
		builder = builder.Where(sq.Eq{"department_id": nil})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка назначения отдела: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[uint64])
}

func (r *EquipmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.EquipmentStatus, at time.Time) (*entities.Equipment, error) {
	query, args, err := psql.Update(equipmentTable).
		Set("status", status.String()).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(equipmentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления статуса: %w", err)
	}
	return collectEquipment(rows, nil)
}

func (r *EquipmentRepository) viewSelect() sq.SelectBuilder {
	cols := append(prefixedEquipmentColumns("e"), "d.name AS department_name")
	return psql.Select(cols...).
		From(equipmentTable + " e").
		LeftJoin("departments d ON d.id = e.department_id")
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.EquipmentView, error) {
	query, args, err := r.viewSelect().Where(sq.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.EquipmentView])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrEquipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func applyEquipmentFilter(b sq.SelectBuilder, f dto.EquipmentFilter) sq.SelectBuilder {
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"e.name": pattern},
			sq.ILike{"e.manufacturer": pattern},
			sq.ILike{"e.tag_number": pattern},
			sq.ILike{"e.serial_number": pattern},
		})
	}
	if f.DepartmentID != nil {
		b = b.Where(sq.Eq{"e.department_id": *f.DepartmentID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"e.status": f.Status})
	}
	if f.WarrantyExpiring {
		b = b.Where(sq.And{
			sq.GtOrEq{"e.warranty_expiry": f.Now},
			sq.LtOrEq{"e.warranty_expiry": f.Now.Add(f.WarrantyWindow)},
		})
	}
	if f.ServiceDue {
		b = b.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM maintenance m WHERE m.equipment_id = e.id AND m.status = ? AND COALESCE(m.scheduled_date, m.date) <= ?)",
			constants.MaintenanceStatusScheduled, f.Now.Add(f.ServiceWindow),
		))
	}
	return b
}

func (r *EquipmentRepository) GetEquipment(ctx context.Context, filter dto.EquipmentFilter) ([]entities.EquipmentView, uint64, error) {
	countQuery, countArgs, err := applyEquipmentFilter(
		psql.Select("COUNT(*)").From(equipmentTable+" e"), filter,
	).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета оборудования: %w", err)
	}
	if total == 0 {
		return []entities.EquipmentView{}, 0, nil
	}

	builder := applyEquipmentFilter(r.viewSelect(), filter).OrderBy("e.created_at DESC", "e.id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.EquipmentView])
	if err != nil {
		r.logger.Error("ошибка чтения списка оборудования", zap.Error(err))
		return nil, 0, err
	}
	return items, total, nil
}
