package seeders

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Options - параметры наполнения БД.
type Options struct {
	Reset bool // очистить таблицы перед наполнением
	Now   time.Time
}

// SeedDemoData наполняет отделы, оборудование, характеристики и обслуживание одной транзакцией.
// Без Reset непустая таблица отделов означает, что БД уже наполнена, и сидер ничего не делает.
func SeedDemoData(ctx context.Context, db *pgxpool.Pool, opts Options, logger *zap.Logger) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if opts.Reset {
		logger.Info("Очистка таблиц перед наполнением")
		if _, err := tx.Exec(ctx, `TRUNCATE TABLE maintenance_checklist, maintenance_requests, maintenance_parts, maintenance_notes, maintenance,
			equipment_specifications, equipment, departments, activities RESTART IDENTITY CASCADE`); err != nil {
			return fmt.Errorf("ошибка очистки таблиц: %w", err)
		}
	} else {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			logger.Info("БД уже наполнена, пропускаем (используйте --reset)", zap.Int("departments", count))
			return nil
		}
	}

	departments, err := seedDepartments(ctx, tx)
	if err != nil {
		return fmt.Errorf("ошибка наполнения отделов: %w", err)
	}
	logger.Info("Отделы добавлены", zap.Int("count", len(departments)))

	equipment, err := seedEquipment(ctx, tx, departments, opts.Now)
	if err != nil {
		return fmt.Errorf("ошибка наполнения оборудования: %w", err)
	}
	logger.Info("Оборудование добавлено", zap.Int("count", len(equipment)))

	records, err := seedMaintenance(ctx, tx, equipment, opts.Now)
	if err != nil {
		return fmt.Errorf("ошибка наполнения обслуживания: %w", err)
	}
	logger.Info("Записи обслуживания добавлены", zap.Int("count", records))

	requests, err := seedRequests(ctx, tx, equipment, opts.Now)
	if err != nil {
		return fmt.Errorf("ошибка наполнения заявок: %w", err)
	}
	logger.Info("Заявки на обслуживание добавлены", zap.Int("count", requests))

	return tx.Commit(ctx)
}

func seedDepartments(ctx context.Context, tx pgx.Tx) (map[string]uint64, error) {
	ids := make(map[string]uint64, len(departmentsData))
	for _, d := range departmentsData {
		var id uint64
		err := tx.QueryRow(ctx, `INSERT INTO departments (name, manager, email, phone, description, budget, employees)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			d.Name, d.Manager, d.Email, d.Phone, d.Description, d.Budget, d.Employees,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[d.Name] = id
	}
	return ids, nil
}
