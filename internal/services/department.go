package services

import (
	"context"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	"maintenance-tracker/internal/events"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/pkg/types"

	"go.uber.org/zap"
)

const (
	departmentCreated = "created"
	departmentUpdated = "updated"
	departmentDeleted = "deleted"
)

type DepartmentServiceInterface interface {
	GetDepartments(ctx context.Context, filter types.Filter) ([]entities.DepartmentWithStats, uint64, error)
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*entities.Department, error)
	UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error)
	DeleteDepartment(ctx context.Context, id uint64) error
}

type DepartmentService struct {
	repo      repositories.DepartmentRepositoryInterface
	publisher EventPublisher
	logger    *zap.Logger
}

func NewDepartmentService(repo repositories.DepartmentRepositoryInterface, publisher EventPublisher, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{repo: repo, publisher: publisher, logger: logger}
}

func (s *DepartmentService) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.DepartmentWithStats, uint64, error) {
	return s.repo.GetDepartments(ctx, filter)
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	return s.repo.FindDepartment(ctx, id)
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*entities.Department, error) {
	created, err := s.repo.CreateDepartment(ctx, entities.Department{
		Name:        payload.Name,
		Manager:     payload.Manager,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Description: payload.Description,
		Budget:      payload.Budget.Float64,
		Employees:   payload.Employees,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Отдел создан", zap.Uint64("department_id", created.ID), zap.String("name", created.Name))
	s.publisher.Publish(ctx, events.DepartmentChangedEvent{DepartmentID: created.ID, Action: departmentCreated})
	return created, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	updated, err := s.repo.UpdateDepartment(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	if !payload.IsEmpty() {
		s.publisher.Publish(ctx, events.DepartmentChangedEvent{DepartmentID: id, Action: departmentUpdated})
	}
	return updated, nil
}

// DeleteDepartment: закрепленное оборудование остается без отдела.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uint64) error {
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Отдел удален", zap.Uint64("department_id", id))
	s.publisher.Publish(ctx, events.DepartmentChangedEvent{DepartmentID: id, Action: departmentDeleted})
	return nil
}
