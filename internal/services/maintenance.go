package services

import (
	"context"
	"fmt"
	"strings"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	"maintenance-tracker/internal/events"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/pkg/config"
	"maintenance-tracker/pkg/constants"
	apperrors "maintenance-tracker/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	reasonMaintenanceCreated = "maintenance_created"
	reasonMaintenanceUpdated = "maintenance_updated"
	reasonMaintenanceDeleted = "maintenance_deleted"
)

type MaintenanceServiceInterface interface {
	GetMaintenance(ctx context.Context, filter dto.MaintenanceFilter) (*dto.MaintenanceListDTO, error)
	FindMaintenance(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error)
	CreateMaintenance(ctx context.Context, payload dto.CreateMaintenanceDTO) (*entities.MaintenanceRecord, error)
	UpdateMaintenance(ctx context.Context, id uint64, payload dto.UpdateMaintenanceDTO) (*entities.MaintenanceRecord, error)
	DeleteMaintenance(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error)
	GetHistory(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRecord, error)
	GetNotes(ctx context.Context, maintenanceID uint64) ([]entities.MaintenanceNote, error)
	CreateNote(ctx context.Context, maintenanceID uint64, payload dto.CreateMaintenanceNoteDTO) (*entities.MaintenanceNote, error)
	GetParts(ctx context.Context, maintenanceID uint64) ([]entities.MaintenancePart, error)
	CreatePart(ctx context.Context, maintenanceID uint64, payload dto.CreateMaintenancePartDTO) (*entities.MaintenancePart, error)
	GetChecklist(ctx context.Context, maintenanceID uint64) ([]entities.ChecklistItem, error)
	FindChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error)
	CreateChecklistItem(ctx context.Context, maintenanceID uint64, payload dto.CreateChecklistItemDTO) (*entities.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, maintenanceID, itemID uint64, payload dto.UpdateChecklistItemDTO) (*entities.ChecklistItem, error)
	DeleteChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error)
}

// MaintenanceService - записи об обслуживании и их подзаписи (заметки, запчасти, чек-лист).
// Поля заметок и запчастей не проверяются: сохраняется то, что пришло.
type MaintenanceService struct {
	txManager     repositories.TxManagerInterface
	repo          repositories.MaintenanceRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	activityRepo  repositories.ActivityRepositoryInterface
	publisher     EventPublisher
	dashboard     config.DashboardConfig
	now           Clock
	logger        *zap.Logger
}

func NewMaintenanceService(
	txManager repositories.TxManagerInterface,
	repo repositories.MaintenanceRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	activityRepo repositories.ActivityRepositoryInterface,
	publisher EventPublisher,
	dashboard config.DashboardConfig,
	now Clock,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		txManager:     txManager,
		repo:          repo,
		equipmentRepo: equipmentRepo,
		activityRepo:  activityRepo,
		publisher:     publisher,
		dashboard:     dashboard,
		now:           defaultClock(now),
		logger:        logger,
	}
}

// GetMaintenance - страница списка. upcoming берет окно плановых работ из настроек дашборда.
func (s *MaintenanceService) GetMaintenance(ctx context.Context, filter dto.MaintenanceFilter) (*dto.MaintenanceListDTO, error) {
	filter.Now = s.now()
	filter.UpcomingWindow = s.dashboard.ServiceWindow

	records, total, err := s.repo.GetMaintenance(ctx, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entities.MaintenanceRecord{}
	}

	var totalPages uint64
	if filter.Limit > 0 {
		totalPages = (total + filter.Limit - 1) / filter.Limit
	}
	return &dto.MaintenanceListDTO{
		Data:       records,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *MaintenanceService) FindMaintenance(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error) {
	return s.repo.FindMaintenance(ctx, id)
}

// CreateMaintenance пишет запись и, если передан equipmentStatus, меняет статус оборудования
// в той же транзакции.
func (s *MaintenanceService) CreateMaintenance(ctx context.Context, payload dto.CreateMaintenanceDTO) (*entities.MaintenanceRecord, error) {
	equipmentID := uint64(payload.EquipmentID)
	if equipmentID == 0 {
		return nil, apperrors.ErrEquipmentRequired
	}
	maintenanceType := payload.ResolvedType()
	if maintenanceType == "" {
		return nil, apperrors.ErrMaintenanceTypeRequired
	}

	var newStatus *constants.EquipmentStatus
	if payload.EquipmentStatus.Valid && payload.EquipmentStatus.String != "" {
		status, ok := constants.ParseEquipmentStatus(payload.EquipmentStatus.String)
		if !ok {
			return nil, apperrors.ErrInvalidStatus
		}
		newStatus = &status
	}

	at := s.now()
	record := entities.MaintenanceRecord{
		EquipmentID:       equipmentID,
		Type:              maintenanceType,
		Status:            null.StringFrom(constants.MaintenanceStatusScheduled),
		Priority:          payload.Priority,
		Date:              payload.ResolvedDate(at),
		ScheduledDate:     payload.ScheduledDate.Time,
		CompletedDate:     payload.CompletedDate.Time,
		Technician:        payload.ResolvedTechnician(),
		Notes:             payload.Notes,
		Cost:              payload.Cost.Float64,
		Description:       payload.Description,
		EstimatedDuration: payload.EstimatedDuration,
		ActualDuration:    payload.ActualDuration,
		Progress:          null.IntFrom(0),
	}
	if payload.Status.Valid && payload.Status.String != "" {
		record.Status = payload.Status
	}
	if payload.Progress.Valid {
		record.Progress = payload.Progress.Int
	}

	var created *entities.MaintenanceRecord
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		exists, err := s.equipmentRepo.EquipmentExists(ctx, tx, equipmentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrEquipmentNotFound
		}

		created, err = s.repo.CreateMaintenance(ctx, tx, record)
		if err != nil {
			return err
		}

		activity := entities.Activity{
			Type:        repositories.ActivityMaintenanceLogged,
			Description: null.StringFrom(fmt.Sprintf("Обслуживание (%s) запланировано", created.Type)),
			Date:        null.TimeFrom(at),
			EquipmentID: null.Int64From(int64(equipmentID)),
		}
		if newStatus != nil {
			equipment, err := s.equipmentRepo.UpdateStatus(ctx, tx, equipmentID, *newStatus, at)
			if err != nil {
				return err
			}
			activity.DepartmentID = equipment.DepartmentID
			activity.Description = null.StringFrom(fmt.Sprintf(
				"%s: обслуживание (%s) запланировано, статус изменен на %s", equipment.Name, created.Type, *newStatus,
			))
		}
		return s.activityRepo.CreateActivity(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Запись об обслуживании создана",
		zap.Uint64("maintenance_id", created.ID),
		zap.Uint64("equipment_id", equipmentID),
		zap.String("type", created.Type),
	)
	s.publisher.Publish(ctx, events.EquipmentChangedEvent{
		Reason:       reasonMaintenanceCreated,
		EquipmentIDs: []uint64{equipmentID},
	})
	return created, nil
}

func (s *MaintenanceService) UpdateMaintenance(ctx context.Context, id uint64, payload dto.UpdateMaintenanceDTO) (*entities.MaintenanceRecord, error) {
	changes := payload.Changes()
	updated, err := s.repo.UpdateMaintenance(ctx, nil, id, changes, s.now())
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		s.publisher.Publish(ctx, events.EquipmentChangedEvent{
			Reason:       reasonMaintenanceUpdated,
			EquipmentIDs: []uint64{updated.EquipmentID},
		})
	}
	return updated, nil
}

func (s *MaintenanceService) DeleteMaintenance(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error) {
	deleted, err := s.repo.DeleteMaintenance(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Запись об обслуживании удалена", zap.Uint64("maintenance_id", id))
	s.publisher.Publish(ctx, events.EquipmentChangedEvent{
		Reason:       reasonMaintenanceDeleted,
		EquipmentIDs: []uint64{deleted.EquipmentID},
	})
	return deleted, nil
}

func (s *MaintenanceService) GetHistory(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRecord, error) {
	records, err := s.repo.GetHistoryByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entities.MaintenanceRecord{}
	}
	return records, nil
}

func (s *MaintenanceService) GetNotes(ctx context.Context, maintenanceID uint64) ([]entities.MaintenanceNote, error) {
	notes, err := s.repo.GetNotes(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []entities.MaintenanceNote{}
	}
	return notes, nil
}

func (s *MaintenanceService) CreateNote(ctx context.Context, maintenanceID uint64, payload dto.CreateMaintenanceNoteDTO) (*entities.MaintenanceNote, error) {
	return s.repo.CreateNote(ctx, entities.MaintenanceNote{
		MaintenanceID: maintenanceID,
		Note:          payload.Note,
		CreatedBy:     payload.CreatedBy,
	})
}

func (s *MaintenanceService) GetParts(ctx context.Context, maintenanceID uint64) ([]entities.MaintenancePart, error) {
	parts, err := s.repo.GetParts(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	if parts == nil {
		parts = []entities.MaintenancePart{}
	}
	return parts, nil
}

func (s *MaintenanceService) CreatePart(ctx context.Context, maintenanceID uint64, payload dto.CreateMaintenancePartDTO) (*entities.MaintenancePart, error) {
	return s.repo.CreatePart(ctx, entities.MaintenancePart{
		MaintenanceID: maintenanceID,
		PartName:      payload.PartName,
		PartNumber:    payload.PartNumber,
		Quantity:      payload.Quantity.Int,
		Cost:          payload.Cost.Float64,
		Supplier:      payload.Supplier,
	})
}

func (s *MaintenanceService) GetChecklist(ctx context.Context, maintenanceID uint64) ([]entities.ChecklistItem, error) {
	items, err := s.repo.GetChecklist(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entities.ChecklistItem{}
	}
	return items, nil
}

func (s *MaintenanceService) FindChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error) {
	return s.repo.FindChecklistItem(ctx, maintenanceID, itemID)
}

// CreateChecklistItem требует описание и существующую запись об обслуживании.
func (s *MaintenanceService) CreateChecklistItem(ctx context.Context, maintenanceID uint64, payload dto.CreateChecklistItemDTO) (*entities.ChecklistItem, error) {
	description := strings.TrimSpace(payload.ItemDescription)
	if description == "" {
		return nil, apperrors.ErrChecklistItemRequired
	}
	if _, err := s.repo.FindMaintenance(ctx, maintenanceID); err != nil {
		return nil, err
	}
	return s.repo.CreateChecklistItem(ctx, entities.ChecklistItem{
		MaintenanceID:   maintenanceID,
		ItemDescription: description,
		IsCompleted:     bool(payload.IsCompleted),
	})
}

func (s *MaintenanceService) UpdateChecklistItem(ctx context.Context, maintenanceID, itemID uint64, payload dto.UpdateChecklistItemDTO) (*entities.ChecklistItem, error) {
	item, err := s.repo.UpdateChecklistItem(ctx, maintenanceID, itemID, payload.Changes(), s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Пункт чек-листа обновлен",
		zap.Uint64("maintenance_id", maintenanceID),
		zap.Uint64("item_id", itemID),
		zap.Bool("completed", item.IsCompleted),
	)
	return item, nil
}

func (s *MaintenanceService) DeleteChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error) {
	return s.repo.DeleteChecklistItem(ctx, maintenanceID, itemID)
}
