package seeders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDepartments - в БД нет ни одного отдела, закреплять не за кем.
var ErrNoDepartments = errors.New("в базе нет ни одного отдела")

// FirstDepartmentID - отдел с наименьшим id; его берет assign-departments без явного --department-id.
func FirstDepartmentID(ctx context.Context, db *pgxpool.Pool) (uint64, string, error) {
	var (
		id   uint64
		name string
	)
	err := db.QueryRow(ctx, `SELECT id, name FROM departments ORDER BY id ASC LIMIT 1`).Scan(&id, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", ErrNoDepartments
	}
	return id, name, err
}

func CountUnassignedEquipment(ctx context.Context, db *pgxpool.Pool) (uint64, error) {
	var n uint64
	err := db.QueryRow(ctx, `SELECT COUNT(*) FROM equipment WHERE department_id IS NULL`).Scan(&n)
	return n, err
}
