package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	apperrors "maintenance-tracker/pkg/errors"
	"maintenance-tracker/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const departmentTable = "departments"

var (
	departmentColumns = []string{
		"id", "name", "manager", "email", "phone", "description",
		"budget::float8 AS budget", "employees", "created_at", "updated_at",
	}
	departmentAllowedSortFields = map[string]string{"id": "d.id", "name": "d.name", "created_at": "d.created_at"}
)

type DepartmentRepositoryInterface interface {
	GetDepartments(ctx context.Context, filter types.Filter) ([]entities.DepartmentWithStats, uint64, error)
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	DepartmentExists(ctx context.Context, tx pgx.Tx, id uint64) (bool, error)
	CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error)
	UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error)
	DeleteDepartment(ctx context.Context, id uint64) error
}

type DepartmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDepartmentRepository(storage *pgxpool.Pool, logger *zap.Logger) DepartmentRepositoryInterface {
	return &DepartmentRepository{storage: storage, logger: logger}
}

func (r *DepartmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func collectDepartment(rows pgx.Rows, err error) (*entities.Department, error) {
	if err != nil {
		return nil, err
	}
	d, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.Department])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrDepartmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.DepartmentWithStats, uint64, error) {
	countBuilder := psql.Select("COUNT(*)").From(departmentTable + " d")
	if filter.Search != "" {
		countBuilder = countBuilder.Where(sq.ILike{"d.name": "%" + filter.Search + "%"})
	}
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.DepartmentWithStats{}, 0, nil
	}

	cols := make([]string, 0, len(departmentColumns)+1)
	for _, c := range departmentColumns {
		if strings.HasPrefix(c, "budget") {
			cols = append(cols, "d.budget::float8 AS budget")
			continue
		}
		cols = append(cols, "d."+c)
	}
	cols = append(cols, "(SELECT COUNT(*) FROM equipment e WHERE e.department_id = d.id) AS equipment_count")

	builder := psql.Select(cols...).From(departmentTable + " d")
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"d.name": "%" + filter.Search + "%"})
	}

	orderBy := []string{}
	for field, direction := range filter.Sort {
		if dbField, ok := departmentAllowedSortFields[field]; ok {
			order := "ASC"
			if strings.ToLower(direction) == "desc" {
				order = "DESC"
			}
			orderBy = append(orderBy, dbField+" "+order)
		}
	}
	if len(orderBy) == 0 {
		orderBy = append(orderBy, "d.created_at DESC")
	}
	builder = builder.OrderBy(append(orderBy, "d.id DESC")...)

	if filter.WithPagination {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	departments, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.DepartmentWithStats])
	if err != nil {
		r.logger.Error("ошибка сканирования отделов", zap.Error(err))
		return nil, 0, err
	}
	return departments, total, nil
}

func (r *DepartmentRepository) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	query, args, err := psql.Select(departmentColumns...).From(departmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return collectDepartment(r.storage.Query(ctx, query, args...))
}

// DepartmentExists блокирует строку отдела до конца транзакции, чтобы его не удалили посреди назначения.
func (r *DepartmentRepository) DepartmentExists(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	var found uint64
	err := r.getQuerier(tx).QueryRow(ctx, `SELECT id FROM departments WHERE id = $1 FOR KEY SHARE`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка проверки отдела: %w", err)
	}
	return true, nil
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error) {
	query, args, err := psql.Insert(departmentTable).
		Columns("name", "manager", "email", "phone", "description", "budget", "employees").
		Values(department.Name, department.Manager, department.Email, department.Phone,
			department.Description, department.Budget, department.Employees).
		Suffix("RETURNING " + strings.Join(departmentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectDepartment(r.storage.Query(ctx, query, args...))
}

func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	if payload.IsEmpty() {
		return r.FindDepartment(ctx, id)
	}

	builder := psql.Update(departmentTable).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	if payload.Name != nil {
		builder = builder.Set("name", *payload.Name)
	}
	if payload.Manager != nil {
		builder = builder.Set("manager", *payload.Manager)
	}
	if payload.Email != nil {
		builder = builder.Set("email", *payload.Email)
	}
	if payload.Phone != nil {
		builder = builder.Set("phone", *payload.Phone)
	}
	if payload.Description != nil {
		builder = builder.Set("description", *payload.Description)
	}
	if payload.Budget != nil {
		builder = builder.Set("budget", *payload.Budget)
	}
	if payload.Employees != nil {
		builder = builder.Set("employees", *payload.Employees)
	}

	query, args, err := builder.Suffix("RETURNING " + strings.Join(departmentColumns, ", ")).ToSql()
	if err != nil {
		return nil, err
	}
	return collectDepartment(r.storage.Query(ctx, query, args...))
}

// DeleteDepartment: оборудование отдела остается без отдела (ON DELETE SET NULL).
func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}
