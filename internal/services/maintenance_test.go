package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
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
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMaintenanceRepo хранит записи в memDB, чтобы fakeTxManager откатывал их вместе с оборудованием.
type fakeMaintenanceRepo struct {
	db        *memDB
	notes     []entities.MaintenanceNote
	parts     []entities.MaintenancePart
	checklist []entities.ChecklistItem
	createErr error

	lastFilter dto.MaintenanceFilter
}

func (r *fakeMaintenanceRepo) GetMaintenance(ctx context.Context, filter dto.MaintenanceFilter) ([]entities.MaintenanceRecord, uint64, error) {
	r.lastFilter = filter
	var all []entities.MaintenanceRecord
	for _, m := range r.db.maintenance {
		if filter.Status != "" && m.Status.String != filter.Status {
			continue
		}
		if filter.EquipmentID != nil && m.EquipmentID != *filter.EquipmentID {
			continue
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := uint64(len(all))
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return all[start:end], total, nil
}

func (r *fakeMaintenanceRepo) FindMaintenance(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error) {
	m, ok := r.db.maintenance[id]
	if !ok {
		return nil, apperrors.ErrMaintenanceNotFound
	}
	return &m, nil
}

func (r *fakeMaintenanceRepo) CreateMaintenance(ctx context.Context, tx pgx.Tx, record entities.MaintenanceRecord) (*entities.MaintenanceRecord, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.db.nextID++
	record.ID = r.db.nextID
	r.db.maintenance[record.ID] = record
	return &record, nil
}

func (r *fakeMaintenanceRepo) UpdateMaintenance(ctx context.Context, tx pgx.Tx, id uint64, changes map[string]interface{}, at time.Time) (*entities.MaintenanceRecord, error) {
	m, ok := r.db.maintenance[id]
	if !ok {
		return nil, apperrors.ErrMaintenanceNotFound
	}
	if v, ok := changes["type"].(string); ok {
		m.Type = v
	}
	if v, ok := changes["status"].(string); ok {
		m.Status = null.StringFrom(v)
	}
	if v, ok := changes["date"].(time.Time); ok {
		m.Date = v
	}
	if len(changes) > 0 {
		m.UpdatedAt = at
	}
	r.db.maintenance[id] = m
	return &m, nil
}

func (r *fakeMaintenanceRepo) DeleteMaintenance(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRecord, error) {
	m, ok := r.db.maintenance[id]
	if !ok {
		return nil, apperrors.ErrMaintenanceNotFound
	}
	delete(r.db.maintenance, id)
	return &m, nil
}

func (r *fakeMaintenanceRepo) GetHistoryByEquipment(ctx context.Context, equipmentID uint64) ([]entities.MaintenanceRecord, error) {
	var out []entities.MaintenanceRecord
	for _, m := range r.db.maintenance {
		if m.EquipmentID == equipmentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaintenanceRepo) GetNotes(ctx context.Context, maintenanceID uint64) ([]entities.MaintenanceNote, error) {
	var out []entities.MaintenanceNote
	for _, n := range r.notes {
		if n.MaintenanceID == maintenanceID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMaintenanceRepo) CreateNote(ctx context.Context, note entities.MaintenanceNote) (*entities.MaintenanceNote, error) {
	note.ID = uint64(len(r.notes) + 1)
	r.notes = append(r.notes, note)
	return &note, nil
}

func (r *fakeMaintenanceRepo) GetParts(ctx context.Context, maintenanceID uint64) ([]entities.MaintenancePart, error) {
	var out []entities.MaintenancePart
	for _, p := range r.parts {
		if p.MaintenanceID == maintenanceID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMaintenanceRepo) CreatePart(ctx context.Context, part entities.MaintenancePart) (*entities.MaintenancePart, error) {
	part.ID = uint64(len(r.parts) + 1)
	r.parts = append(r.parts, part)
	return &part, nil
}

func (r *fakeMaintenanceRepo) GetChecklist(ctx context.Context, maintenanceID uint64) ([]entities.ChecklistItem, error) {
	var out []entities.ChecklistItem
	for _, item := range r.checklist {
		if item.MaintenanceID == maintenanceID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeMaintenanceRepo) checklistIndex(maintenanceID, itemID uint64) int {
	for i, item := range r.checklist {
		if item.ID == itemID && item.MaintenanceID == maintenanceID {
			return i
		}
	}
	return -1
}

func (r *fakeMaintenanceRepo) FindChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error) {
	i := r.checklistIndex(maintenanceID, itemID)
	if i < 0 {
		return nil, apperrors.ErrChecklistItemNotFound
	}
	item := r.checklist[i]
	return &item, nil
}

func (r *fakeMaintenanceRepo) CreateChecklistItem(ctx context.Context, item entities.ChecklistItem) (*entities.ChecklistItem, error) {
	item.ID = uint64(len(r.checklist) + 1)
	r.checklist = append(r.checklist, item)
	return &item, nil
}

func (r *fakeMaintenanceRepo) UpdateChecklistItem(ctx context.Context, maintenanceID, itemID uint64, changes map[string]interface{}, at time.Time) (*entities.ChecklistItem, error) {
	i := r.checklistIndex(maintenanceID, itemID)
	if i < 0 {
		return nil, apperrors.ErrChecklistItemNotFound
	}
	if v, ok := changes["item_description"].(string); ok {
		r.checklist[i].ItemDescription = v
	}
	if v, ok := changes["is_completed"].(bool); ok {
		r.checklist[i].IsCompleted = v
	}
	if len(changes) > 0 {
		r.checklist[i].UpdatedAt = at
	}
	item := r.checklist[i]
	return &item, nil
}

func (r *fakeMaintenanceRepo) DeleteChecklistItem(ctx context.Context, maintenanceID, itemID uint64) (*entities.ChecklistItem, error) {
	i := r.checklistIndex(maintenanceID, itemID)
	if i < 0 {
		return nil, apperrors.ErrChecklistItemNotFound
	}
	item := r.checklist[i]
	r.checklist = append(r.checklist[:i], r.checklist[i+1:]...)
	return &item, nil
}

type maintenanceFixture struct {
	db        *memDB
	tx        *fakeTxManager
	repo      *fakeMaintenanceRepo
	activity  *fakeActivityRepo
	publisher *fakePublisher
	service   *MaintenanceService
}

func newMaintenanceFixture() *maintenanceFixture {
	db := newMemDB()
	f := &maintenanceFixture{
		db:        db,
		tx:        &fakeTxManager{db: db},
		repo:      &fakeMaintenanceRepo{db: db},
		activity:  &fakeActivityRepo{db: db},
		publisher: &fakePublisher{},
	}
	f.service = NewMaintenanceService(
		f.tx, f.repo, &fakeEquipmentRepo{db: db}, f.activity, f.publisher,
		config.DashboardConfig{ServiceWindow: 14 * 24 * time.Hour},
		func() time.Time { return fixedNow },
		zap.NewNop(),
	)
	return f
}

func TestMaintenanceService_EmptyListsAreNotNil(t *testing.T) {
	service := newMaintenanceFixture().service

	history, err := service.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, history)

	notes, err := service.GetNotes(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, notes)

	parts, err := service.GetParts(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, parts)
}

func TestMaintenanceService_CreateNoteWithoutFields(t *testing.T) {
	service := newMaintenanceFixture().service

	note, err := service.CreateNote(context.Background(), 9, dto.CreateMaintenanceNoteDTO{})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), note.MaintenanceID)
	assert.False(t, note.Note.Valid)

	notes, err := service.GetNotes(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestMaintenanceService_CreatePartAcceptsStringNumbers(t *testing.T) {
	service := newMaintenanceFixture().service

	var payload dto.CreateMaintenancePartDTO
	require.NoError(t, json.Unmarshal([]byte(`{"partName":"Filter","quantity":"3","cost":"12.50"}`), &payload))

	part, err := service.CreatePart(context.Background(), 4, payload)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), part.MaintenanceID)
	assert.Equal(t, "Filter", part.PartName.String)
	assert.Equal(t, 3, part.Quantity.Int)
	assert.InDelta(t, 12.5, part.Cost.Float64, 0.0001)
	assert.False(t, part.Supplier.Valid)
}

func TestMaintenanceService_NotesAndPartsAscending(t *testing.T) {
	f := newMaintenanceFixture()
	f.repo.notes = []entities.MaintenanceNote{
		{ID: 3, MaintenanceID: 1, Note: null.StringFrom("third")},
		{ID: 1, MaintenanceID: 1, Note: null.StringFrom("first")},
		{ID: 2, MaintenanceID: 2, Note: null.StringFrom("other")},
	}
	f.repo.parts = []entities.MaintenancePart{
		{ID: 5, MaintenanceID: 1, PartName: null.StringFrom("Valve")},
		{ID: 4, MaintenanceID: 1, PartName: null.StringFrom("Filter")},
	}

	_, err := f.service.CreateNote(context.Background(), 1, dto.CreateMaintenanceNoteDTO{Note: null.StringFrom("latest")})
	require.NoError(t, err)

	notes, err := f.service.GetNotes(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, []string{"first", "third", "latest"}, []string{notes[0].Note.String, notes[1].Note.String, notes[2].Note.String})

	parts, err := f.service.GetParts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, uint64(4), parts[0].ID)
	assert.Equal(t, uint64(5), parts[1].ID)
}

func TestMaintenanceService_CreateChangesEquipmentStatus(t *testing.T) {
	f := newMaintenanceFixture()
	dept := uint64(2)
	f.db.addEquipment(7, &dept)

	var payload dto.CreateMaintenanceDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"equipmentId": "7",
		"maintenanceType": "Calibration",
		"performedBy": "Ivanov",
		"performedDate": "2026-03-01",
		"cost": "150.5",
		"equipmentStatus": "maintenance"
	}`), &payload))

	record, err := f.service.CreateMaintenance(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), record.EquipmentID)
	assert.Equal(t, "Calibration", record.Type)
	assert.Equal(t, "Ivanov", record.Technician.String)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), record.Date)
	assert.Equal(t, constants.MaintenanceStatusScheduled, record.Status.String)
	assert.Equal(t, 0, record.Progress.Int)
	assert.InDelta(t, 150.5, record.Cost.Float64, 0.0001)

	assert.Equal(t, constants.EquipmentMaintenance.String(), f.db.equipment[7].Status)
	require.Len(t, f.db.activities, 1)
	assert.Equal(t, repositories.ActivityMaintenanceLogged, f.db.activities[0].Type)
	assert.Equal(t, int64(2), f.db.activities[0].DepartmentID.Int64)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0].(events.EquipmentChangedEvent)
	assert.Equal(t, []uint64{7}, event.EquipmentIDs)
}

func TestMaintenanceService_CreateDefaultsDateToNow(t *testing.T) {
	f := newMaintenanceFixture()
	f.db.addEquipment(1, nil)

	record, err := f.service.CreateMaintenance(context.Background(), dto.CreateMaintenanceDTO{
		EquipmentID: 1,
		Type:        null.StringFrom("repair"),
		Status:      null.StringFrom("in_progress"),
	})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, record.Date)
	assert.Equal(t, "in_progress", record.Status.String)
	assert.Equal(t, constants.EquipmentOperational.String(), f.db.equipment[1].Status, "без equipmentStatus статус не меняется")
}

func TestMaintenanceService_CreateValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload dto.CreateMaintenanceDTO
		want    error
	}{
		{"no equipment", dto.CreateMaintenanceDTO{Type: null.StringFrom("repair")}, apperrors.ErrEquipmentRequired},
		{"no type", dto.CreateMaintenanceDTO{EquipmentID: 1, Type: null.StringFrom("  ")}, apperrors.ErrMaintenanceTypeRequired},
		{"bad status", dto.CreateMaintenanceDTO{
			EquipmentID: 1, Type: null.StringFrom("repair"), EquipmentStatus: null.StringFrom("melted"),
		}, apperrors.ErrInvalidStatus},
		{"unknown equipment", dto.CreateMaintenanceDTO{EquipmentID: 99, Type: null.StringFrom("repair")}, apperrors.ErrEquipmentNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMaintenanceFixture()
			f.db.addEquipment(1, nil)

			_, err := f.service.CreateMaintenance(context.Background(), tc.payload)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.db.maintenance)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestMaintenanceService_CreateRollsBackStatusOnFailure(t *testing.T) {
	f := newMaintenanceFixture()
	f.db.addEquipment(1, nil)
	f.activity.err = errors.New("connection reset")

	_, err := f.service.CreateMaintenance(context.Background(), dto.CreateMaintenanceDTO{
		EquipmentID:     1,
		Type:            null.StringFrom("repair"),
		EquipmentStatus: null.StringFrom("broken"),
	})
	require.Error(t, err)
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Empty(t, f.db.maintenance)
	assert.Equal(t, constants.EquipmentOperational.String(), f.db.equipment[1].Status)
	assert.Empty(t, f.publisher.events)
}

func TestMaintenanceService_ListPagesAndUpcomingWindow(t *testing.T) {
	f := newMaintenanceFixture()
	for i := uint64(1); i <= 5; i++ {
		f.db.maintenance[i] = entities.MaintenanceRecord{ID: i, EquipmentID: 1, Type: "repair"}
	}

	list, err := f.service.GetMaintenance(context.Background(), dto.MaintenanceFilter{Upcoming: true, Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, fixedNow, f.repo.lastFilter.Now)
	assert.Equal(t, 14*24*time.Hour, f.repo.lastFilter.UpcomingWindow)
	assert.Equal(t, uint64(5), list.Total)
	assert.Equal(t, uint64(3), list.TotalPages)
	require.Len(t, list.Data, 2)
	assert.Equal(t, uint64(3), list.Data[0].ID)
	assert.Equal(t, uint64(2), list.Data[1].ID)

	empty, err := f.service.GetMaintenance(context.Background(), dto.MaintenanceFilter{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.NotNil(t, empty.Data)
	assert.Empty(t, empty.Data)
}

func TestMaintenanceService_UpdatePublishesOnlyOnChange(t *testing.T) {
	f := newMaintenanceFixture()
	f.db.maintenance[1] = entities.MaintenanceRecord{ID: 1, EquipmentID: 4, Type: "repair"}

	_, err := f.service.UpdateMaintenance(context.Background(), 1, dto.UpdateMaintenanceDTO{})
	require.NoError(t, err)
	assert.Empty(t, f.publisher.events)

	status := "completed"
	updated, err := f.service.UpdateMaintenance(context.Background(), 1, dto.UpdateMaintenanceDTO{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status.String)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, []uint64{4}, f.publisher.events[0].(events.EquipmentChangedEvent).EquipmentIDs)

	_, err = f.service.UpdateMaintenance(context.Background(), 42, dto.UpdateMaintenanceDTO{Status: &status})
	assert.ErrorIs(t, err, apperrors.ErrMaintenanceNotFound)
}

func TestMaintenanceService_Delete(t *testing.T) {
	f := newMaintenanceFixture()
	f.db.maintenance[1] = entities.MaintenanceRecord{ID: 1, EquipmentID: 4, Type: "repair"}

	deleted, err := f.service.DeleteMaintenance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "repair", deleted.Type)
	assert.Empty(t, f.db.maintenance)
	require.Len(t, f.publisher.events, 1)

	_, err = f.service.DeleteMaintenance(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrMaintenanceNotFound)
}

func TestMaintenanceService_ChecklistLifecycle(t *testing.T) {
	f := newMaintenanceFixture()
	f.db.maintenance[1] = entities.MaintenanceRecord{ID: 1, EquipmentID: 4, Type: "inspection"}
	ctx := context.Background()

	var payload dto.CreateChecklistItemDTO
	require.NoError(t, json.Unmarshal([]byte(`{"itemDescription":"  Проверить заземление ","isCompleted":0}`), &payload))
	first, err := f.service.CreateChecklistItem(ctx, 1, payload)
	require.NoError(t, err)
	assert.Equal(t, "Проверить заземление", first.ItemDescription)
	assert.False(t, first.IsCompleted)

	second, err := f.service.CreateChecklistItem(ctx, 1, dto.CreateChecklistItemDTO{ItemDescription: "Калибровка", IsCompleted: true})
	require.NoError(t, err)

	items, err := f.service.GetChecklist(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "свежие пункты сверху")

	done := dto.FlexBool(true)
	blank := "  "
	updated, err := f.service.UpdateChecklistItem(ctx, 1, first.ID, dto.UpdateChecklistItemDTO{IsCompleted: &done, ItemDescription: &blank})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Проверить заземление", updated.ItemDescription, "пустое описание не затирает пункт")
	assert.Equal(t, fixedNow, updated.UpdatedAt)

	deleted, err := f.service.DeleteChecklistItem(ctx, 1, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, deleted.ID)

	_, err = f.service.FindChecklistItem(ctx, 1, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrChecklistItemNotFound)
	assert.Empty(t, f.publisher.events)
}

func TestMaintenanceService_ChecklistItemScopedToRecord(t *testing.T) {
	f := newMaintenanceFixture()
	f.repo.checklist = []entities.ChecklistItem{{ID: 1, MaintenanceID: 2, ItemDescription: "Замена фильтра"}}

	_, err := f.service.FindChecklistItem(context.Background(), 3, 1)
	assert.ErrorIs(t, err, apperrors.ErrChecklistItemNotFound)

	_, err = f.service.DeleteChecklistItem(context.Background(), 3, 1)
	assert.ErrorIs(t, err, apperrors.ErrChecklistItemNotFound)
	assert.Len(t, f.repo.checklist, 1)

	empty, err := f.service.GetChecklist(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMaintenanceService_CreateChecklistItemValidation(t *testing.T) {
	f := newMaintenanceFixture()
	f.db.maintenance[1] = entities.MaintenanceRecord{ID: 1, EquipmentID: 4, Type: "inspection"}

	_, err := f.service.CreateChecklistItem(context.Background(), 1, dto.CreateChecklistItemDTO{ItemDescription: " "})
	assert.ErrorIs(t, err, apperrors.ErrChecklistItemRequired)

	_, err = f.service.CreateChecklistItem(context.Background(), 99, dto.CreateChecklistItemDTO{ItemDescription: "Осмотр"})
	assert.ErrorIs(t, err, apperrors.ErrMaintenanceNotFound)
	assert.Empty(t, f.repo.checklist)
}
