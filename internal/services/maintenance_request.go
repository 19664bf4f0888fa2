package services

import (
	"context"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/pkg/constants"
	apperrors "maintenance-tracker/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MaintenanceRequestServiceInterface interface {
	GetRequests(ctx context.Context, filter dto.MaintenanceRequestFilter) (*dto.MaintenanceRequestListDTO, error)
	FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, payload dto.CreateMaintenanceRequestDTO) (*entities.MaintenanceRequest, error)
	UpdateRequest(ctx context.Context, id uint64, payload dto.UpdateMaintenanceRequestDTO) (*entities.MaintenanceRequest, error)
	DeleteRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error)
}

// MaintenanceRequestService - заявки на обслуживание. Заявки не входят в отчеты и дашборд,
// поэтому событий об изменениях не публикуют.
type MaintenanceRequestService struct {
	txManager     repositories.TxManagerInterface
	repo          repositories.MaintenanceRequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	now           Clock
	logger        *zap.Logger
}

func NewMaintenanceRequestService(
	txManager repositories.TxManagerInterface,
	repo repositories.MaintenanceRequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	now Clock,
	logger *zap.Logger,
) *MaintenanceRequestService {
	return &MaintenanceRequestService{
		txManager:     txManager,
		repo:          repo,
		equipmentRepo: equipmentRepo,
		now:           defaultClock(now),
		logger:        logger,
	}
}

func (s *MaintenanceRequestService) GetRequests(ctx context.Context, filter dto.MaintenanceRequestFilter) (*dto.MaintenanceRequestListDTO, error) {
	requests, total, err := s.repo.GetRequests(ctx, filter)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []entities.MaintenanceRequest{}
	}

	var totalPages uint64
	if filter.Limit > 0 {
		totalPages = (total + filter.Limit - 1) / filter.Limit
	}
	return &dto.MaintenanceRequestListDTO{
		Data:       requests,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *MaintenanceRequestService) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	return s.repo.FindRequest(ctx, id)
}

// CreateRequest: оборудование обязательно и должно существовать; дата по умолчанию - сейчас.
func (s *MaintenanceRequestService) CreateRequest(ctx context.Context, payload dto.CreateMaintenanceRequestDTO) (*entities.MaintenanceRequest, error) {
	if payload.EquipmentID == 0 {
		return nil, apperrors.ErrEquipmentRequired
	}
	req := payload.Entity(s.now(), constants.RequestPriorityMedium, constants.RequestStatusPending)

	var created *entities.MaintenanceRequest
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		exists, err := s.equipmentRepo.EquipmentExists(ctx, tx, req.EquipmentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrEquipmentNotFound
		}
		created, err = s.repo.CreateRequest(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка на обслуживание создана",
		zap.Uint64("request_id", created.ID),
		zap.Uint64("equipment_id", created.EquipmentID),
		zap.String("priority", created.Priority),
	)
	return created, nil
}

func (s *MaintenanceRequestService) UpdateRequest(ctx context.Context, id uint64, payload dto.UpdateMaintenanceRequestDTO) (*entities.MaintenanceRequest, error) {
	return s.repo.UpdateRequest(ctx, nil, id, payload.Changes(), s.now())
}

func (s *MaintenanceRequestService) DeleteRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequest, error) {
	deleted, err := s.repo.DeleteRequest(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Заявка на обслуживание удалена", zap.Uint64("request_id", id))
	return deleted, nil
}
