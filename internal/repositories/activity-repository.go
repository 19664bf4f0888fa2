package repositories

import (
	"context"
	"fmt"

	"maintenance-tracker/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	ActivityDepartmentAssigned = "department_assigned"
	ActivityStatusChanged      = "status_changed"
	ActivityEquipmentAdded     = "equipment_added"
	ActivityEquipmentRemoved   = "equipment_removed"
	ActivityMaintenanceLogged  = "maintenance"
)

type ActivityRepositoryInterface interface {
	CreateActivity(ctx context.Context, tx pgx.Tx, activity entities.Activity) error
}

type ActivityRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewActivityRepository(storage *pgxpool.Pool, logger *zap.Logger) ActivityRepositoryInterface {
	return &ActivityRepository{storage: storage, logger: logger}
}

func (r *ActivityRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

// CreateActivity пишется в той же транзакции, что и изменение, которое она описывает.
func (r *ActivityRepository) CreateActivity(ctx context.Context, tx pgx.Tx, activity entities.Activity) error {
	query, args, err := psql.Insert("activities").
		Columns("type", "description", "date", "equipment_id", "department_id").
		Values(activity.Type, activity.Description, activity.Date, activity.EquipmentID, activity.DepartmentID).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка записи в журнал событий: %w", err)
	}
	return nil
}
