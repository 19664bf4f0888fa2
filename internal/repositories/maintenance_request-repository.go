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

const requestTable = "maintenance_requests"

var requestColumns = []string{
	"id", "equipment_id", "requested_by", "request_date", "priority", "description", "status",
	"assigned_to", "created_at", "updated_at",
}

type MaintenanceRequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter dto.MaintenanceRequestFilter) ([]entities.MaintenanceRequest, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, tx pgx.Tx, req entities.MaintenanceRequest) (*entities.MaintenanceRequest, error)
	UpdateRequest(ctx context.Context, tx pgx.Tx, id uint64, changes map[string]interface{}, at time.Time) (*entities.MaintenanceRequest, error)
	DeleteRequest(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
}

type MaintenanceRequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceRequestRepositoryInterface {
	return &MaintenanceRequestRepository{storage: storage, logger: logger}
}

func (r *MaintenanceRequestRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func collectRequest(rows pgx.Rows, err error) (*entities.MaintenanceRequest, error) {
	if err != nil {
		return nil, err
	}
	req, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.MaintenanceRequest])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func applyRequestFilter(b sq.SelectBuilder, f dto.MaintenanceRequestFilter) sq.SelectBuilder {
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.Priority != "" {
		b = b.Where(sq.Eq{"priority": f.Priority})
	}
	if f.EquipmentID != nil {
		b = b.Where(sq.Eq{"equipment_id": *f.EquipmentID})
	}
	return b
}

// GetRequests - страница заявок, свежие сверху.
func (r *MaintenanceRequestRepository) GetRequests(ctx context.Context, filter dto.MaintenanceRequestFilter) ([]entities.MaintenanceRequest, uint64, error) {
	countQuery, countArgs, err := applyRequestFilter(psql.Select("COUNT(*)").From(requestTable), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}
	if total == 0 {
		return []entities.MaintenanceRequest{}, 0, nil
	}

	builder := applyRequestFilter(psql.Select(requestColumns...).From(requestTable), filter).
		OrderBy("request_date DESC", "id DESC")
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
	requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.MaintenanceRequest])
	if err != nil {
		r.logger.Error("ошибка чтения списка заявок", zap.Error(err))
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *MaintenanceRequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	query, args, err := psql.Select(requestColumns...).From(requestTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return collectRequest(r.storage.Query(ctx, query, args...))
}

func (r *MaintenanceRequestRepository) CreateRequest(ctx context.Context, tx pgx.Tx, req entities.MaintenanceRequest) (*entities.MaintenanceRequest, error) {
	query, args, err := psql.Insert(requestTable).
		Columns("equipment_id", "requested_by", "request_date", "priority", "description", "status", "assigned_to").
		Values(req.EquipmentID, req.RequestedBy, req.RequestDate, req.Priority, req.Description, req.Status, req.AssignedTo).
		Suffix("RETURNING " + strings.Join(requestColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectRequest(r.getQuerier(tx).Query(ctx, query, args...))
}

// UpdateRequest: пустой набор изменений только перечитывает заявку.
func (r *MaintenanceRequestRepository) UpdateRequest(ctx context.Context, tx pgx.Tx, id uint64, changes map[string]interface{}, at time.Time) (*entities.MaintenanceRequest, error) {
	if len(changes) == 0 {
		query, args, err := psql.Select(requestColumns...).From(requestTable).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return nil, err
		}
		return collectRequest(r.getQuerier(tx).Query(ctx, query, args...))
	}

	query, args, err := psql.Update(requestTable).
		SetMap(changes).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(requestColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectRequest(r.getQuerier(tx).Query(ctx, query, args...))
}

func (r *MaintenanceRequestRepository) DeleteRequest(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query, args, err := psql.Delete(requestTable).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(requestColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectRequest(r.getQuerier(tx).Query(ctx, query, args...))
}
