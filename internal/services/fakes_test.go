package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	"maintenance-tracker/internal/repositories"
	"maintenance-tracker/pkg/constants"
	apperrors "maintenance-tracker/pkg/errors"
	"maintenance-tracker/pkg/eventbus"
	"maintenance-tracker/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
)

// memDB - общее состояние фейковых репозиториев; fakeTxManager откатывает его при ошибке.
type memDB struct {
	departments map[uint64]entities.Department
	equipment   map[uint64]entities.Equipment
	specs       []entities.EquipmentSpecification
	activities  []entities.Activity
	maintenance map[uint64]entities.MaintenanceRecord
	nextSpecID  uint64
	nextID      uint64
}

func newMemDB() *memDB {
	return &memDB{
		departments: make(map[uint64]entities.Department),
		equipment:   make(map[uint64]entities.Equipment),
		maintenance: make(map[uint64]entities.MaintenanceRecord),
	}
}

func (db *memDB) clone() *memDB {
	c := &memDB{
		departments: make(map[uint64]entities.Department, len(db.departments)),
		equipment:   make(map[uint64]entities.Equipment, len(db.equipment)),
		specs:       append([]entities.EquipmentSpecification(nil), db.specs...),
		activities:  append([]entities.Activity(nil), db.activities...),
		maintenance: make(map[uint64]entities.MaintenanceRecord, len(db.maintenance)),
		nextSpecID:  db.nextSpecID,
		nextID:      db.nextID,
	}
	for k, v := range db.departments {
		c.departments[k] = v
	}
	for k, v := range db.equipment {
		c.equipment[k] = v
	}
	for k, v := range db.maintenance {
		c.maintenance[k] = v
	}
	return c
}

func (db *memDB) restore(from *memDB) {
	*db = *from
}

func (db *memDB) addEquipment(id uint64, departmentID *uint64) {
	e := entities.Equipment{ID: id, Name: "Unit", Status: constants.EquipmentOperational.String()}
	if departmentID != nil {
		e.DepartmentID = null.Int64From(int64(*departmentID))
	}
	db.equipment[id] = e
}

type fakeTxManager struct {
	db        *memDB
	calls     int
	commits   int
	rollbacks int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	snapshot := m.db.clone()
	if err := fn(nil); err != nil {
		m.db.restore(snapshot)
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type fakeEquipmentRepo struct {
	db          *memDB
	assignCalls int
	lastFilter  dto.EquipmentFilter
}

func (r *fakeEquipmentRepo) EquipmentExists(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	_, ok := r.db.equipment[id]
	return ok, nil
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, tx pgx.Tx, e entities.Equipment) (*entities.Equipment, error) {
	r.db.nextID++
	e.ID = 1000 + r.db.nextID
	r.db.equipment[e.ID] = e
	return &e, nil
}

// UpdateEquipment понимает только колонки, которые проверяют тесты сервиса.
func (r *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, tx pgx.Tx, id uint64, changes map[string]interface{}, at time.Time) (*entities.Equipment, error) {
	e, ok := r.db.equipment[id]
	if !ok {
		return nil, apperrors.ErrEquipmentNotFound
	}
	if len(changes) == 0 {
		return &e, nil
	}
	if v, ok := changes["name"].(string); ok {
		e.Name = v
	}
	if v, ok := changes["status"].(string); ok {
		e.Status = v
	}
	if v, ok := changes["department_id"]; ok {
		if departmentID, isID := v.(uint64); isID {
			e.DepartmentID = null.Int64From(int64(departmentID))
		} else {
			e.DepartmentID = null.Int64{}
		}
	}
	e.UpdatedAt = at
	r.db.equipment[id] = e
	return &e, nil
}

func (r *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	e, ok := r.db.equipment[id]
	if !ok {
		return nil, apperrors.ErrEquipmentNotFound
	}
	delete(r.db.equipment, id)
	for mid, m := range r.db.maintenance {
		if m.EquipmentID == id {
			delete(r.db.maintenance, mid)
		}
	}
	return &e, nil
}

func (r *fakeEquipmentRepo) AssignDepartment(ctx context.Context, tx pgx.Tx, departmentID uint64, ids []uint64, at time.Time) ([]uint64, error) {
	r.assignCalls++
	var updated []uint64
	apply := func(id uint64) {
		e := r.db.equipment[id]
		e.DepartmentID = null.Int64From(int64(departmentID))
		e.UpdatedAt = at
		r.db.equipment[id] = e
		updated = append(updated, id)
	}
	if len(ids) > 0 {
		for _, id := range ids {
			if _, ok := r.db.equipment[id]; ok {
				apply(id)
			}
		}
		return updated, nil
	}
	var unassigned []uint64
	for id, e := range r.db.equipment {
		if !e.DepartmentID.Valid {
			unassigned = append(unassigned, id)
		}
	}
	sort.Slice(unassigned, func(i, j int) bool { return unassigned[i] < unassigned[j] })
	for _, id := range unassigned {
		apply(id)
	}
	return updated, nil
}

func (r *fakeEquipmentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.EquipmentStatus, at time.Time) (*entities.Equipment, error) {
	e, ok := r.db.equipment[id]
	if !ok {
		return nil, apperrors.ErrEquipmentNotFound
	}
	e.Status = status.String()
	e.UpdatedAt = at
	r.db.equipment[id] = e
	return &e, nil
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.EquipmentView, error) {
	e, ok := r.db.equipment[id]
	if !ok {
		return nil, apperrors.ErrEquipmentNotFound
	}
	return &entities.EquipmentView{Equipment: e}, nil
}

func (r *fakeEquipmentRepo) GetEquipment(ctx context.Context, filter dto.EquipmentFilter) ([]entities.EquipmentView, uint64, error) {
	r.lastFilter = filter
	var items []entities.EquipmentView
	for _, e := range r.db.equipment {
		items = append(items, entities.EquipmentView{Equipment: e})
	}
	return items, uint64(len(items)), nil
}

type fakeDepartmentRepo struct {
	db     *memDB
	nextID uint64
}

func (r *fakeDepartmentRepo) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.DepartmentWithStats, uint64, error) {
	var out []entities.DepartmentWithStats
	for _, d := range r.db.departments {
		out = append(out, entities.DepartmentWithStats{Department: d})
	}
	return out, uint64(len(out)), nil
}

func (r *fakeDepartmentRepo) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	d, ok := r.db.departments[id]
	if !ok {
		return nil, apperrors.ErrDepartmentNotFound
	}
	return &d, nil
}

func (r *fakeDepartmentRepo) DepartmentExists(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	_, ok := r.db.departments[id]
	return ok, nil
}

func (r *fakeDepartmentRepo) CreateDepartment(ctx context.Context, d entities.Department) (*entities.Department, error) {
	r.nextID++
	d.ID = r.nextID
	r.db.departments[d.ID] = d
	return &d, nil
}

func (r *fakeDepartmentRepo) UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	d, ok := r.db.departments[id]
	if !ok {
		return nil, apperrors.ErrDepartmentNotFound
	}
	if payload.Name != nil {
		d.Name = *payload.Name
	}
	r.db.departments[id] = d
	return &d, nil
}

func (r *fakeDepartmentRepo) DeleteDepartment(ctx context.Context, id uint64) error {
	if _, ok := r.db.departments[id]; !ok {
		return apperrors.ErrDepartmentNotFound
	}
	delete(r.db.departments, id)
	for eid, e := range r.db.equipment {
		if e.DepartmentID.Valid && uint64(e.DepartmentID.Int64) == id {
			e.DepartmentID = null.Int64{}
			r.db.equipment[eid] = e
		}
	}
	return nil
}

type fakeActivityRepo struct {
	db  *memDB
	err error
}

func (r *fakeActivityRepo) CreateActivity(ctx context.Context, tx pgx.Tx, a entities.Activity) error {
	if r.err != nil {
		return r.err
	}
	r.db.activities = append(r.db.activities, a)
	return nil
}

type fakeSpecRepo struct {
	db        *memDB
	insertErr error
}

func (r *fakeSpecRepo) ListByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) ([]entities.EquipmentSpecification, error) {
	var out []entities.EquipmentSpecification
	for _, s := range r.db.specs {
		if s.EquipmentID == equipmentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSpecRepo) DeleteByEquipment(ctx context.Context, tx pgx.Tx, equipmentID uint64) error {
	kept := r.db.specs[:0:0]
	for _, s := range r.db.specs {
		if s.EquipmentID != equipmentID {
			kept = append(kept, s)
		}
	}
	r.db.specs = kept
	return nil
}

func (r *fakeSpecRepo) InsertMany(ctx context.Context, tx pgx.Tx, specs []entities.EquipmentSpecification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, s := range specs {
		r.db.nextSpecID++
		s.ID = r.db.nextSpecID
		r.db.specs = append(r.db.specs, s)
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// fakeCache - CacheRepositoryInterface в памяти.
type fakeCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}
