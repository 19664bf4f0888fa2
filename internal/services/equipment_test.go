package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	"maintenance-tracker/internal/events"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/pkg/config"
	"maintenance-tracker/pkg/constants"
	apperrors "maintenance-tracker/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func ids(v ...uint64) []dto.FlexID {
	out := make([]dto.FlexID, 0, len(v))
	for _, id := range v {
		out = append(out, dto.FlexID(id))
	}
	return out
}

type EquipmentServiceSuite struct {
	suite.Suite

	db        *memDB
	tx        *fakeTxManager
	equipment *fakeEquipmentRepo
	activity  *fakeActivityRepo
	publisher *fakePublisher
	service   *EquipmentService
}

func (s *EquipmentServiceSuite) SetupTest() {
	s.db = newMemDB()
	s.db.departments[2] = newDepartment(2, "Radiology")
	s.db.departments[7] = newDepartment(7, "Cardiology")

	two := uint64(2)
	s.db.addEquipment(1, &two)
	s.db.addEquipment(2, nil)
	s.db.addEquipment(3, nil)

	s.tx = &fakeTxManager{db: s.db}
	s.equipment = &fakeEquipmentRepo{db: s.db}
	s.activity = &fakeActivityRepo{db: s.db}
	s.publisher = &fakePublisher{}
	s.service = NewEquipmentService(
		s.tx, s.equipment, &fakeDepartmentRepo{db: s.db, nextID: 100}, s.activity, s.publisher,
		config.DashboardConfig{WarrantyWindow: 30 * 24 * time.Hour, ServiceWindow: 14 * 24 * time.Hour},
		func() time.Time { return fixedNow },
		zap.NewNop(),
	)
}

func TestEquipmentServiceSuite(t *testing.T) {
	suite.Run(t, new(EquipmentServiceSuite))
}

func (s *EquipmentServiceSuite) departmentOf(id uint64) int64 {
	e := s.db.equipment[id]
	if !e.DepartmentID.Valid {
		return 0
	}
	return e.DepartmentID.Int64
}

func (s *EquipmentServiceSuite) TestAssignExplicitIDs() {
	res, err := s.service.AssignDepartment(context.Background(), dto.BulkAssignDepartmentDTO{
		DepartmentID: 7,
		EquipmentIDs: ids(1, 2, 2, 99),
	})
	s.Require().NoError(err)

	s.True(res.Success)
	s.Equal(2, res.Count)
	s.Equal(int64(7), s.departmentOf(1), "уже закрепленное оборудование переназначается")
	s.Equal(int64(7), s.departmentOf(2))
	s.Equal(int64(0), s.departmentOf(3), "не из списка - не трогаем")
	s.Equal(fixedNow, s.db.equipment[1].UpdatedAt)

	s.Require().Len(s.db.activities, 1)
	s.Equal(repositories.ActivityDepartmentAssigned, s.db.activities[0].Type)

	s.Require().Len(s.publisher.events, 1)
	ev := s.publisher.events[0].(events.EquipmentChangedEvent)
	s.ElementsMatch([]uint64{1, 2}, ev.EquipmentIDs)
	s.Equal(uint64(7), *ev.DepartmentID)
}

func (s *EquipmentServiceSuite) TestAssignOnlyUnassignedWhenListEmpty() {
	res, err := s.service.AssignDepartment(context.Background(), dto.BulkAssignDepartmentDTO{DepartmentID: 7})
	s.Require().NoError(err)

	s.Equal(2, res.Count)
	s.Equal(int64(2), s.departmentOf(1))
	s.Equal(int64(7), s.departmentOf(2))
	s.Equal(int64(7), s.departmentOf(3))

	again, err := s.service.AssignDepartment(context.Background(), dto.BulkAssignDepartmentDTO{DepartmentID: 7})
	s.Require().NoError(err)
	s.Equal(0, again.Count, "повторный вызов ничего не меняет")
	s.Len(s.publisher.events, 1)
	s.Len(s.db.activities, 1)
}

func (s *EquipmentServiceSuite) TestAssignRequiresDepartment() {
	_, err := s.service.AssignDepartment(context.Background(), dto.BulkAssignDepartmentDTO{EquipmentIDs: ids(1)})
	s.ErrorIs(err, apperrors.ErrDepartmentRequired)
	s.Equal(0, s.tx.calls)
	s.Equal(0, s.equipment.assignCalls)
}

func (s *EquipmentServiceSuite) TestAssignUnknownDepartment() {
	_, err := s.service.AssignDepartment(context.Background(), dto.BulkAssignDepartmentDTO{
		DepartmentID: 42,
		EquipmentIDs: ids(1, 2),
	})
	s.ErrorIs(err, apperrors.ErrDepartmentNotFound)
	s.Equal(0, s.equipment.assignCalls)
	s.Equal(int64(2), s.departmentOf(1))
	s.Equal(int64(0), s.departmentOf(2))
	s.Empty(s.publisher.events)
}

func (s *EquipmentServiceSuite) TestAssignZeroIDsDoesNotTouchUnassigned() {
	res, err := s.service.AssignDepartment(context.Background(), dto.BulkAssignDepartmentDTO{
		DepartmentID: 7,
		EquipmentIDs: ids(0, 0),
	})
	s.Require().NoError(err)
	s.Equal(0, res.Count)
	s.Equal(0, s.equipment.assignCalls)
	s.Equal(int64(0), s.departmentOf(2))
}

func (s *EquipmentServiceSuite) TestAssignRollsBackOnFailure() {
	s.activity.err = errors.New("disk full")

	_, err := s.service.AssignDepartment(context.Background(), dto.BulkAssignDepartmentDTO{DepartmentID: 7})
	s.Error(err)
	s.Equal(1, s.tx.rollbacks)
	s.Equal(int64(0), s.departmentOf(2), "частичных изменений быть не должно")
	s.Equal(int64(0), s.departmentOf(3))
	s.Empty(s.publisher.events)
}

func (s *EquipmentServiceSuite) TestUpdateStatus() {
	updated, err := s.service.UpdateStatus(context.Background(), 1, dto.UpdateEquipmentStatusDTO{Status: "broken"})
	s.Require().NoError(err)

	s.Equal(constants.EquipmentBroken.String(), updated.Status)
	s.Equal(fixedNow, updated.UpdatedAt)
	s.Equal("broken", s.db.equipment[1].Status)
	s.Require().Len(s.db.activities, 1)
	s.Equal(repositories.ActivityStatusChanged, s.db.activities[0].Type)
	s.Require().Len(s.publisher.events, 1)
	s.Equal(events.EquipmentChangedEventName, s.publisher.events[0].Name())
}

func (s *EquipmentServiceSuite) TestUpdateStatusValidation() {
	cases := []struct {
		name   string
		status string
		want   error
	}{
		{"пустой", "", apperrors.ErrStatusRequired},
		{"неизвестный", "exploded", apperrors.ErrInvalidStatus},
		{"регистр", "Broken", apperrors.ErrInvalidStatus},
		{"пробелы", " broken", apperrors.ErrInvalidStatus},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.UpdateStatus(context.Background(), 1, dto.UpdateEquipmentStatusDTO{Status: tc.status})
			s.ErrorIs(err, tc.want)
			s.Equal("operational", s.db.equipment[1].Status)
			s.Equal(0, s.tx.calls)
		})
	}
}

func (s *EquipmentServiceSuite) TestUpdateStatusNotFound() {
	_, err := s.service.UpdateStatus(context.Background(), 404, dto.UpdateEquipmentStatusDTO{Status: "retired"})
	s.ErrorIs(err, apperrors.ErrEquipmentNotFound)
	s.Empty(s.db.activities)
	s.Empty(s.publisher.events)
}

func (s *EquipmentServiceSuite) TestGetEquipmentUsesDashboardWindows() {
	_, total, err := s.service.GetEquipment(context.Background(), dto.EquipmentFilter{WarrantyExpiring: true})
	s.Require().NoError(err)
	s.Equal(uint64(3), total)
	s.Equal(fixedNow, s.equipment.lastFilter.Now)
	s.Equal(30*24*time.Hour, s.equipment.lastFilter.WarrantyWindow)
	s.Equal(14*24*time.Hour, s.equipment.lastFilter.ServiceWindow)
}

func (s *EquipmentServiceSuite) TestCreateEquipment() {
	var payload dto.CreateEquipmentDTO
	s.Require().NoError(json.Unmarshal([]byte(`{
		"name": "  Ultrasound  ",
		"departmentId": "7",
		"purchaseCost": "1200.50",
		"hasServiceContract": "1"
	}`), &payload))

	created, err := s.service.CreateEquipment(context.Background(), payload)
	s.Require().NoError(err)

	s.Equal("Ultrasound", created.Name)
	s.Equal(constants.EquipmentOperational.String(), created.Status)
	s.Equal(int64(7), created.DepartmentID.Int64)
	s.True(created.HasServiceContract)
	s.Contains(s.db.equipment, created.ID)

	s.Require().Len(s.db.activities, 1)
	s.Equal(repositories.ActivityEquipmentAdded, s.db.activities[0].Type)
	s.Require().Len(s.publisher.events, 1)
	ev := s.publisher.events[0].(events.EquipmentChangedEvent)
	s.Equal([]uint64{created.ID}, ev.EquipmentIDs)
	s.Equal(uint64(7), *ev.DepartmentID)
}

func (s *EquipmentServiceSuite) TestCreateEquipmentValidation() {
	cases := []struct {
		name    string
		payload dto.CreateEquipmentDTO
		want    error
	}{
		{"без имени", dto.CreateEquipmentDTO{Name: "   "}, apperrors.ErrNameRequired},
		{"статус", dto.CreateEquipmentDTO{Name: "CT", Status: null.StringFrom("melted")}, apperrors.ErrInvalidStatus},
		{"отдел", dto.CreateEquipmentDTO{Name: "CT", DepartmentID: 42}, apperrors.ErrDepartmentNotFound},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.CreateEquipment(context.Background(), tc.payload)
			s.ErrorIs(err, tc.want)
			s.Len(s.db.equipment, 3)
			s.Empty(s.publisher.events)
		})
	}
}

func (s *EquipmentServiceSuite) TestUpdateEquipmentLogsStatusChange() {
	name, status := "Renamed", "broken"
	updated, err := s.service.UpdateEquipment(context.Background(), 2, dto.UpdateEquipmentDTO{Name: &name, Status: &status})
	s.Require().NoError(err)

	s.Equal("Renamed", updated.Name)
	s.Equal("broken", s.db.equipment[2].Status)
	s.Equal(fixedNow, s.db.equipment[2].UpdatedAt)
	s.Require().Len(s.db.activities, 1)
	s.Equal(repositories.ActivityStatusChanged, s.db.activities[0].Type)
	s.Len(s.publisher.events, 1)
}

func (s *EquipmentServiceSuite) TestUpdateEquipmentDepartment() {
	zero := dto.FlexID(0)
	_, err := s.service.UpdateEquipment(context.Background(), 1, dto.UpdateEquipmentDTO{DepartmentID: &zero})
	s.Require().NoError(err)
	s.Equal(int64(0), s.departmentOf(1), "departmentId 0 снимает отдел")
	s.Empty(s.db.activities, "без смены статуса событие в журнал не пишется")

	missing := dto.FlexID(42)
	_, err = s.service.UpdateEquipment(context.Background(), 2, dto.UpdateEquipmentDTO{DepartmentID: &missing})
	s.ErrorIs(err, apperrors.ErrDepartmentNotFound)
	s.Equal(int64(0), s.departmentOf(2))
}

func (s *EquipmentServiceSuite) TestUpdateEquipmentWithoutChanges() {
	updated, err := s.service.UpdateEquipment(context.Background(), 1, dto.UpdateEquipmentDTO{})
	s.Require().NoError(err)
	s.Equal(uint64(1), updated.ID)
	s.Empty(s.publisher.events)

	bad := "exploded"
	_, err = s.service.UpdateEquipment(context.Background(), 1, dto.UpdateEquipmentDTO{Status: &bad})
	s.ErrorIs(err, apperrors.ErrInvalidStatus)
	s.Equal(0, s.tx.rollbacks)
}

func (s *EquipmentServiceSuite) TestDeleteEquipment() {
	s.db.maintenance[1] = entities.MaintenanceRecord{ID: 1, EquipmentID: 1, Type: "repair"}

	s.Require().NoError(s.service.DeleteEquipment(context.Background(), 1))

	s.NotContains(s.db.equipment, uint64(1))
	s.Empty(s.db.maintenance)
	s.Require().Len(s.db.activities, 1)
	s.Equal(repositories.ActivityEquipmentRemoved, s.db.activities[0].Type)
	s.Equal(int64(2), s.db.activities[0].DepartmentID.Int64)
	s.Require().Len(s.publisher.events, 1)

	s.ErrorIs(s.service.DeleteEquipment(context.Background(), 1), apperrors.ErrEquipmentNotFound)
	s.Len(s.publisher.events, 1)
}
