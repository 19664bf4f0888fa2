package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	apperrors "maintenance-tracker/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const maintenanceTable = "maintenance"

var (
	maintenanceColumns = []string{
		"id", "equipment_id", "type", "status", "priority", "date", "scheduled_date", "completed_date",
		"technician", "notes", "cost::float8 AS cost", "description", "estimated_duration",
		"actual_duration", "progress", "created_at", "updated_at",
	}
	noteColumns = []string{"id", "maintenance_id", "note", "created_by", "created_at", "updated_at"}
	partColumns = []string{
		"id", "maintenance_id", "part_name", "part_number", "quantity", "cost::float8 AS cost",
		"supplier", "created_at", "updated_at",
	}
	checklistColumns = []string{"id", "maintenance_id", "item_description", "is_completed", "created_at", "updated_at"}
)

type MaintenanceRepositoryInterface interface {
	GetMaintenance(ctx context.Context, filter dto.MaintenanceFilter) ([]entities.MaintenanceRecord, uint64, error)
	FindMaintenance(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error)
	CreateMaintenance(ctx context.Context, tx pgx.Tx, record entities.MaintenanceRecord) (*entities.MaintenanceRecord, error)
	UpdateMaintenance(ctx context.Context, tx pgx.Tx, id uint64, changes map[string]interface{}, at time.Time) (*entities.MaintenanceRecord, error)
	DeleteMaintenance(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRecord, error)
	GetHistoryByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRecord, error)
	GetNotes(ctx context.Context, maintenanceID uint64) ([]entities.MaintenanceNote, error)
	CreateNote(ctx context.Context, note entities.MaintenanceNote) (*entities.MaintenanceNote, error)
	GetParts(ctx context.Context, maintenanceID uint64) ([]entities.MaintenancePart, error)
	CreatePart(ctx context.Context, part entities.MaintenancePart) (*entities.MaintenancePart, error)
	GetChecklist(ctx context.Context, maintenanceID uint64) ([]entities.ChecklistItem, error)
	FindChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error)
	CreateChecklistItem(ctx context.Context, item entities.ChecklistItem) (*entities.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, maintenanceID, itemID uint64, changes map[string]interface{}, at time.Time) (*entities.ChecklistItem, error)
	DeleteChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error)
}

type MaintenanceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceRepositoryInterface {
	return &MaintenanceRepository{storage: storage, logger: logger}
}

func (r *MaintenanceRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func collectMaintenance(rows pgx.Rows, err error) (*entities.MaintenanceRecord, error) {
	if err != nil {
		return nil, err
	}
	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.MaintenanceRecord])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrMaintenanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func applyMaintenanceFilter(b sq.SelectBuilder, f dto.MaintenanceFilter) sq.SelectBuilder {
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.Type != "" {
		b = b.Where(sq.ILike{"type": "%" + f.Type + "%"})
	}
	if f.EquipmentID != nil {
		b = b.Where(sq.Eq{"equipment_id": *f.EquipmentID})
	}
	if f.Upcoming {
		b = b.Where(sq.And{
			sq.GtOrEq{"scheduled_date": f.Now},
			sq.LtOrEq{"scheduled_date": f.Now.Add(f.UpcomingWindow)},
		})
	}
	return b
}

// GetMaintenance - страница записей, новые сверху, и общее число подходящих под фильтр.
func (r *MaintenanceRepository) GetMaintenance(ctx context.Context, filter dto.MaintenanceFilter) ([]entities.MaintenanceRecord, uint64, error) {
	countQuery, countArgs, err := applyMaintenanceFilter(psql.Select("COUNT(*)").From(maintenanceTable), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей обслуживания: %w", err)
	}
	if total == 0 {
		return []entities.MaintenanceRecord{}, 0, nil
	}

	builder := applyMaintenanceFilter(psql.Select(maintenanceColumns...).From(maintenanceTable), filter).
		OrderBy("date DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset())
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.MaintenanceRecord])
	if err != nil {
		r.logger.Error("ошибка чтения списка обслуживания", zap.Error(err))
		return nil, 0, err
	}
	return records, total, nil
}

func (r *MaintenanceRepository) FindMaintenance(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error) {
	query, args, err := psql.Select(maintenanceColumns...).From(maintenanceTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return collectMaintenance(r.storage.Query(ctx, query, args...))
}

func (r *MaintenanceRepository) CreateMaintenance(ctx context.Context, tx pgx.Tx, record entities.MaintenanceRecord) (*entities.MaintenanceRecord, error) {
	query, args, err := psql.Insert(maintenanceTable).
		Columns(
			"equipment_id", "type", "status", "priority", "date", "scheduled_date", "completed_date",
			"technician", "notes", "cost", "description", "estimated_duration", "actual_duration", "progress",
		).
		Values(
			record.EquipmentID, record.Type, record.Status, record.Priority, record.Date, record.ScheduledDate,
			record.CompletedDate, record.Technician, record.Notes, record.Cost, record.Description,
			record.EstimatedDuration, record.ActualDuration, record.Progress,
		).
		Suffix("RETURNING " + strings.Join(maintenanceColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectMaintenance(r.getQuerier(tx).Query(ctx, query, args...))
}

// UpdateMaintenance применяет только переданные колонки; пустой набор просто перечитывает запись.
func (r *MaintenanceRepository) UpdateMaintenance(ctx context.Context, tx pgx.Tx, id uint64, changes map[string]interface{}, at time.Time) (*entities.MaintenanceRecord, error) {
	if len(changes) == 0 {
		query, args, err := psql.Select(maintenanceColumns...).From(maintenanceTable).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return nil, err
		}
		return collectMaintenance(r.getQuerier(tx).Query(ctx, query, args...))
	}

	query, args, err := psql.Update(maintenanceTable).
		SetMap(changes).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(maintenanceColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectMaintenance(r.getQuerier(tx).Query(ctx, query, args...))
}

// DeleteMaintenance возвращает удаленную запись. Заметки и запчасти не связаны внешним ключом и остаются.
func (r *MaintenanceRepository) DeleteMaintenance(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRecord, error) {
	query, args, err := psql.Delete(maintenanceTable).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(maintenanceColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectMaintenance(r.getQuerier(tx).Query(ctx, query, args...))
}

// GetHistoryByEquipment - новые сверху.
func (r *MaintenanceRepository) GetHistoryByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRecord, error) {
	query, args, err := psql.Select(maintenanceColumns...).
		From(maintenanceTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.MaintenanceRecord])
}

// GetNotes - старые сверху; id разводит записи с одинаковым created_at.
func (r *MaintenanceRepository) GetNotes(ctx context.Context, maintenanceID uint64) ([]entities.MaintenanceNote, error) {
	query, args, err := psql.Select(noteColumns...).
		From("maintenance_notes").
		Where(sq.Eq{"maintenance_id": maintenanceID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.MaintenanceNote])
}

func (r *MaintenanceRepository) CreateNote(ctx context.Context, note entities.MaintenanceNote) (*entities.MaintenanceNote, error) {
	query, args, err := psql.Insert("maintenance_notes").
		Columns("maintenance_id", "note", "created_by").
		Values(note.MaintenanceID, note.Note, note.CreatedBy).
		Suffix("RETURNING " + strings.Join(noteColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.MaintenanceNote])
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *MaintenanceRepository) GetParts(ctx context.Context, maintenanceID uint64) ([]entities.MaintenancePart, error) {
	query, args, err := psql.Select(partColumns...).
		From("maintenance_parts").
		Where(sq.Eq{"maintenance_id": maintenanceID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.MaintenancePart])
}

func (r *MaintenanceRepository) CreatePart(ctx context.Context, part entities.MaintenancePart) (*entities.MaintenancePart, error) {
	query, args, err := psql.Insert("maintenance_parts").
		Columns("maintenance_id", "part_name", "part_number", "quantity", "cost", "supplier").
		Values(part.MaintenanceID, part.PartName, part.PartNumber, part.Quantity, part.Cost, part.Supplier).
		Suffix("RETURNING " + strings.Join(partColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.MaintenancePart])
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func collectChecklistItem(rows pgx.Rows, err error) (*entities.ChecklistItem, error) {
	if err != nil {
		return nil, err
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.ChecklistItem])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrChecklistItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// checklistItemWhere - пункт ищется только внутри своей записи об обслуживании.
func checklistItemWhere(maintenanceID, itemID uint64) sq.Eq {
	return sq.Eq{"id": itemID, "maintenance_id": maintenanceID}
}

// GetChecklist - свежие пункты сверху.
func (r *MaintenanceRepository) GetChecklist(ctx context.Context, maintenanceID uint64) ([]entities.ChecklistItem, error) {
	query, args, err := psql.Select(checklistColumns...).
		From("maintenance_checklist").
		Where(sq.Eq{"maintenance_id": maintenanceID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.ChecklistItem])
}

func (r *MaintenanceRepository) FindChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error) {
	query, args, err := psql.Select(checklistColumns...).
		From("maintenance_checklist").
		Where(checklistItemWhere(maintenanceID, itemID)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectChecklistItem(r.storage.Query(ctx, query, args...))
}

func (r *MaintenanceRepository) CreateChecklistItem(ctx context.Context, item entities.ChecklistItem) (*entities.ChecklistItem, error) {
	query, args, err := psql.Insert("maintenance_checklist").
		Columns("maintenance_id", "item_description", "is_completed").
		Values(item.MaintenanceID, item.ItemDescription, item.IsCompleted).
		Suffix("RETURNING " + strings.Join(checklistColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectChecklistItem(r.storage.Query(ctx, query, args...))
}

func (r *MaintenanceRepository) UpdateChecklistItem(ctx context.Context, maintenanceID, itemID uint64, changes map[string]interface{}, at time.Time) (*entities.ChecklistItem, error) {
	if len(changes) == 0 {
		return r.FindChecklistItem(ctx, maintenanceID, itemID)
	}
	query, args, err := psql.Update("maintenance_checklist").
		SetMap(changes).
		Set("updated_at", at).
		Where(checklistItemWhere(maintenanceID, itemID)).
		Suffix("RETURNING " + strings.Join(checklistColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectChecklistItem(r.storage.Query(ctx, query, args...))
}

func (r *MaintenanceRepository) DeleteChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error) {
	query, args, err := psql.Delete("maintenance_checklist").
		Where(checklistItemWhere(maintenanceID, itemID)).
		Suffix("RETURNING " + strings.Join(checklistColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectChecklistItem(r.storage.Query(ctx, query, args...))
}
