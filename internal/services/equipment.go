package services

import (
	"context"
	"fmt"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	"maintenance-tracker/internal/events"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/pkg/config"
	"maintenance-tracker/pkg/constants"
	apperrors "maintenance-tracker/pkg/errors"
	"maintenance-tracker/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	reasonDepartmentAssigned = "department_assigned"
	reasonStatusChanged      = "status_changed"
	reasonEquipmentCreated   = "equipment_created"
	reasonEquipmentUpdated   = "equipment_updated"
	reasonEquipmentDeleted   = "equipment_deleted"
)

type EquipmentServiceInterface interface {
	AssignDepartment(ctx context.Context, payload dto.BulkAssignDepartmentDTO) (*dto.BulkAssignResultDTO, error)
	UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateEquipmentStatusDTO) (*entities.Equipment, error)
	GetEquipment(ctx context.Context, filter dto.EquipmentFilter) ([]entities.EquipmentView, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.EquipmentView, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id uint64) error
}

type EquipmentService struct {
	txManager      repositories.TxManagerInterface
	equipmentRepo  repositories.EquipmentRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	activityRepo   repositories.ActivityRepositoryInterface
	publisher      EventPublisher
	dashboard      config.DashboardConfig
	now            Clock
	logger         *zap.Logger
}

func NewEquipmentService(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	activityRepo repositories.ActivityRepositoryInterface,
	publisher EventPublisher,
	dashboard config.DashboardConfig,
	now Clock,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		txManager:      txManager,
		equipmentRepo:  equipmentRepo,
		departmentRepo: departmentRepo,
		activityRepo:   activityRepo,
		publisher:      publisher,
		dashboard:      dashboard,
		now:            defaultClock(now),
		logger:         logger,
	}
}

// AssignDepartment закрепляет отдел за списком оборудования, а при пустом списке -
// за всем оборудованием без отдела. Все изменения в одной транзакции.
func (s *EquipmentService) AssignDepartment(ctx context.Context, payload dto.BulkAssignDepartmentDTO) (*dto.BulkAssignResultDTO, error) {
	departmentID := uint64(payload.DepartmentID)
	if departmentID == 0 {
		return nil, apperrors.ErrDepartmentRequired
	}

	ids := utils.UniqueUint64(payload.IDs())
	explicit := payload.HasExplicitIDs()
	startedAt := s.now()

	var updated []uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		exists, err := s.departmentRepo.DepartmentExists(ctx, tx, departmentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrDepartmentNotFound
		}

		// Список передан, но ни одного валидного id: ничего не трогаем.
		if explicit && len(ids) == 0 {
			return nil
		}

		updated, err = s.equipmentRepo.AssignDepartment(ctx, tx, departmentID, ids, startedAt)
		if err != nil {
			return err
		}
		if len(updated) == 0 {
			return nil
		}

		return s.activityRepo.CreateActivity(ctx, tx, entities.Activity{
			Type:         repositories.ActivityDepartmentAssigned,
			Description:  null.StringFrom(fmt.Sprintf("Отдел назначен для %d ед. оборудования", len(updated))),
			Date:         null.TimeFrom(startedAt),
			DepartmentID: null.Int64From(int64(departmentID)),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Отдел назначен оборудованию",
		zap.Uint64("department_id", departmentID),
		zap.Int("count", len(updated)),
		zap.Bool("only_unassigned", !explicit),
	)

	if len(updated) > 0 {
		s.publisher.Publish(ctx, events.EquipmentChangedEvent{
			Reason:       reasonDepartmentAssigned,
			EquipmentIDs: updated,
			DepartmentID: &departmentID,
		})
	}

	return &dto.BulkAssignResultDTO{
		Success: true,
		Message: fmt.Sprintf("Отдел успешно назначен: обновлено записей %d", len(updated)),
		Count:   len(updated),
	}, nil
}

// UpdateStatus меняет статус одной единицы оборудования; значение проверяется по закрытому списку.
func (s *EquipmentService) UpdateStatus(ctx context.Context, id uint64, payload dto.UpdateEquipmentStatusDTO) (*entities.Equipment, error) {
	if payload.Status == "" {
		return nil, apperrors.ErrStatusRequired
	}
	status, ok := constants.ParseEquipmentStatus(payload.Status)
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}

	at := s.now()
	var updated *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		updated, err = s.equipmentRepo.UpdateStatus(ctx, tx, id, status, at)
		if err != nil {
			return err
		}
		return s.activityRepo.CreateActivity(ctx, tx, entities.Activity{
			Type:         repositories.ActivityStatusChanged,
			Description:  null.StringFrom(fmt.Sprintf("%s: статус изменен на %s", updated.Name, status)),
			Date:         null.TimeFrom(at),
			EquipmentID:  null.Int64From(int64(id)),
			DepartmentID: updated.DepartmentID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.EquipmentChangedEvent{
		Reason:       reasonStatusChanged,
		EquipmentIDs: []uint64{id},
	})
	return updated, nil
}

func (s *EquipmentService) GetEquipment(ctx context.Context, filter dto.EquipmentFilter) ([]entities.EquipmentView, uint64, error) {
	filter.Now = s.now()
	filter.WarrantyWindow = s.dashboard.WarrantyWindow
	filter.ServiceWindow = s.dashboard.ServiceWindow
	return s.equipmentRepo.GetEquipment(ctx, filter)
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.EquipmentView, error) {
	return s.equipmentRepo.FindEquipment(ctx, id)
}

func departmentRef(id null.Int64) *uint64 {
	if !id.Valid {
		return nil
	}
	v := uint64(id.Int64)
	return &v
}

// CreateEquipment заводит карточку оборудования; указанный отдел должен существовать.
func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	item := payload.Entity()
	if item.Name == "" {
		return nil, apperrors.ErrNameRequired
	}
	if _, ok := constants.ParseEquipmentStatus(item.Status); !ok {
		return nil, apperrors.ErrInvalidStatus
	}

	at := s.now()
	var created *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if item.DepartmentID.Valid {
			exists, err := s.departmentRepo.DepartmentExists(ctx, tx, uint64(item.DepartmentID.Int64))
			if err != nil {
				return err
			}
			if !exists {
				return apperrors.ErrDepartmentNotFound
			}
		}

		var err error
		created, err = s.equipmentRepo.CreateEquipment(ctx, tx, item)
		if err != nil {
			return err
		}
		return s.activityRepo.CreateActivity(ctx, tx, entities.Activity{
			Type:         repositories.ActivityEquipmentAdded,
			Description:  null.StringFrom(fmt.Sprintf("%s: добавлено в реестр", created.Name)),
			Date:         null.TimeFrom(at),
			EquipmentID:  null.Int64From(int64(created.ID)),
			DepartmentID: created.DepartmentID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Оборудование создано", zap.Uint64("equipment_id", created.ID), zap.String("name", created.Name))
	s.publisher.Publish(ctx, events.EquipmentChangedEvent{
		Reason:       reasonEquipmentCreated,
		EquipmentIDs: []uint64{created.ID},
		DepartmentID: departmentRef(created.DepartmentID),
	})
	return created, nil
}

// UpdateEquipment меняет только переданные поля. Смена статуса попадает в журнал событий.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	if payload.Status != nil && *payload.Status != "" {
		if _, ok := constants.ParseEquipmentStatus(*payload.Status); !ok {
			return nil, apperrors.ErrInvalidStatus
		}
	}
	changes := payload.Changes()

	at := s.now()
	var updated *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if departmentID, ok := payload.TargetDepartment(); ok {
			exists, err := s.departmentRepo.DepartmentExists(ctx, tx, departmentID)
			if err != nil {
				return err
			}
			if !exists {
				return apperrors.ErrDepartmentNotFound
			}
		}

		var err error
		updated, err = s.equipmentRepo.UpdateEquipment(ctx, tx, id, changes, at)
		if err != nil {
			return err
		}
		if _, statusChanged := changes["status"]; !statusChanged {
			return nil
		}
		return s.activityRepo.CreateActivity(ctx, tx, entities.Activity{
			Type:         repositories.ActivityStatusChanged,
			Description:  null.StringFrom(fmt.Sprintf("%s: статус изменен на %s", updated.Name, updated.Status)),
			Date:         null.TimeFrom(at),
			EquipmentID:  null.Int64From(int64(id)),
			DepartmentID: updated.DepartmentID,
		})
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		s.publisher.Publish(ctx, events.EquipmentChangedEvent{
			Reason:       reasonEquipmentUpdated,
			EquipmentIDs: []uint64{id},
			DepartmentID: departmentRef(updated.DepartmentID),
		})
	}
	return updated, nil
}

// DeleteEquipment удаляет карточку вместе с характеристиками и историей обслуживания.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	at := s.now()
	var deleted *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		deleted, err = s.equipmentRepo.DeleteEquipment(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.activityRepo.CreateActivity(ctx, tx, entities.Activity{
			Type:         repositories.ActivityEquipmentRemoved,
			Description:  null.StringFrom(fmt.Sprintf("%s: удалено из реестра", deleted.Name)),
			Date:         null.TimeFrom(at),
			DepartmentID: deleted.DepartmentID,
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("Оборудование удалено", zap.Uint64("equipment_id", id))
	s.publisher.Publish(ctx, events.EquipmentChangedEvent{
		Reason:       reasonEquipmentDeleted,
		EquipmentIDs: []uint64{id},
		DepartmentID: departmentRef(deleted.DepartmentID),
	})
	return nil
}
