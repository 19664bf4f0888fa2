package repositories

import (
	"context"
	"fmt"

	"maintenance-tracker/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const specificationTable = "equipment_specifications"

var specificationColumns = []string{
	"id", "equipment_id", "specification_key", "specification_value", "created_at", "updated_at",
}

type SpecificationRepositoryInterface interface {
	ListByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.EquipmentSpecification, error)
	DeleteByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) error
	InsertMany(ctx context.Context, tx pgx.Tx, specs []entities.EquipmentSpecification) error
}

type SpecificationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSpecificationRepository(storage *pgxpool.Pool, logger *zap.Logger) SpecificationRepositoryInterface {
	return &SpecificationRepository{storage: storage, logger: logger}
}

func (r *SpecificationRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

// ListByEquipment - в порядке вставки (по id).
func (r *SpecificationRepository) ListByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.EquipmentSpecification, error) {
	query, args, err := psql.Select(specificationColumns...).
		From(specificationTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.EquipmentSpecification])
}

func (r *SpecificationRepository) DeleteByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) error {
	_, err := r.getQuerier(tx).Exec(ctx, `DELETE FROM equipment_specifications WHERE equipment_id = $1`, equipmentID)
	if err != nil {
		return fmt.Errorf("ошибка удаления характеристик: %w", err)
	}
	return nil
}

// InsertMany вставляет все строки одним INSERT; порядок VALUES задает порядок id.
func (r *SpecificationRepository) InsertMany(ctx context.Context, tx pgx.Tx, specs []entities.EquipmentSpecification) error {
	if len(specs) == 0 {
		return nil
	}
	builder := psql.Insert(specificationTable).Columns("equipment_id", "specification_key", "specification_value")
	for _, s := range specs {
		builder = builder.Values(s.EquipmentID, s.SpecificationKey, s.SpecificationValue)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка вставки характеристик: %w", err)
	}
	return nil
}
