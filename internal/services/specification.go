package services

import (
	"context"
	"net/http"
	"strings"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	"maintenance-tracker/internal/repositories"
	apperrors "maintenance-tracker/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SpecificationServiceInterface interface {
	ReplaceSpecifications(ctx context.Context, equipmentID uint64, payload dto.ReplaceSpecificationsDTO) ([]entities.EquipmentSpecification, error)
	GetSpecifications(ctx context.Context, equipmentID uint64) ([]entities.EquipmentSpecification, error)
}

type SpecificationService struct {
	txManager repositories.TxManagerInterface
	specRepo  repositories.SpecificationRepositoryInterface
	logger    *zap.Logger
}

func NewSpecificationService(
	txManager repositories.TxManagerInterface,
	specRepo repositories.SpecificationRepositoryInterface,
	logger *zap.Logger,
) *SpecificationService {
	return &SpecificationService{txManager: txManager, specRepo: specRepo, logger: logger}
}

// normalizeSpecifications отбрасывает записи без ключа; ключ сохраняется как есть,
// отсутствующее значение становится пустой строкой. Порядок и повторы сохраняются.
func normalizeSpecifications(equipmentID uint64, items []*dto.SpecificationInput) []entities.EquipmentSpecification {
	specs := make([]entities.EquipmentSpecification, 0, len(items))
	for _, item := range items {
		if item == nil || item.SpecificationKey == nil || strings.TrimSpace(*item.SpecificationKey) == "" {
			continue
		}
		value := ""
		if item.SpecificationValue != nil {
			value = *item.SpecificationValue
		}
		specs = append(specs, entities.EquipmentSpecification{
			EquipmentID:        equipmentID,
			SpecificationKey:   *item.SpecificationKey,
			SpecificationValue: value,
		})
	}
	return specs
}

// ReplaceSpecifications полностью заменяет набор характеристик: удаление, вставка и
// чтение результата выполняются в одной транзакции.
func (s *SpecificationService) ReplaceSpecifications(ctx context.Context, equipmentID uint64, payload dto.ReplaceSpecificationsDTO) ([]entities.EquipmentSpecification, error) {
	if !payload.IsArray() {
		return nil, apperrors.ErrSpecsNotArray
	}
	items, err := payload.Items()
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Некорректный элемент в specifications", err, nil)
	}
	specs := normalizeSpecifications(equipmentID, items)

	var result []entities.EquipmentSpecification
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.specRepo.DeleteByEquipment(ctx, tx, equipmentID); err != nil {
			return err
		}
		if err := s.specRepo.InsertMany(ctx, tx, specs); err != nil {
			return err
		}
		var err error
		result, err = s.specRepo.ListByEquipment(ctx, tx, equipmentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Характеристики заменены",
		zap.Uint64("equipment_id", equipmentID),
		zap.Int("received", len(items)),
		zap.Int("stored", len(result)),
	)
	if result == nil {
		result = []entities.EquipmentSpecification{}
	}
	return result, nil
}

func (s *SpecificationService) GetSpecifications(ctx context.Context, equipmentID uint64) ([]entities.EquipmentSpecification, error) {
	specs, err := s.specRepo.ListByEquipment(ctx, nil, equipmentID)
	if err != nil {
		return nil, err
	}
	if specs == nil {
		specs = []entities.EquipmentSpecification{}
	}
	return specs, nil
}
