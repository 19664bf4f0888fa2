package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"maintenance-tracker/internal/dto"
	"maintenance-tracker/internal/entities"
	apperrors "maintenance-tracker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSpecService(db *memDB) (*SpecificationService, *fakeTxManager, *fakeSpecRepo) {
	tx := &fakeTxManager{db: db}
	repo := &fakeSpecRepo{db: db}
	return NewSpecificationService(tx, repo, zap.NewNop()), tx, repo
}

func specsPayload(raw string) dto.ReplaceSpecificationsDTO {
	return dto.ReplaceSpecificationsDTO{Specifications: json.RawMessage(raw)}
}

func TestReplaceSpecifications_FiltersAndKeepsOrder(t *testing.T) {
	db := newMemDB()
	db.specs = []entities.EquipmentSpecification{
		{ID: 1, EquipmentID: 5, SpecificationKey: "Old", SpecificationValue: "x"},
		{ID: 2, EquipmentID: 6, SpecificationKey: "Other", SpecificationValue: "y"},
	}
	db.nextSpecID = 2
	service, tx, _ := newSpecService(db)

	result, err := service.ReplaceSpecifications(context.Background(), 5, specsPayload(`[
		{"specificationKey": "Voltage", "specificationValue": "220V"},
		{"specificationKey": "   ", "specificationValue": "dropped"},
		{"specificationValue": "no key"},
		null,
		{"specificationKey": "Weight"},
		{"specificationKey": "Voltage", "specificationValue": "110V"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)

	require.Len(t, result, 3)
	assert.Equal(t, "Voltage", result[0].SpecificationKey)
	assert.Equal(t, "220V", result[0].SpecificationValue)
	assert.Equal(t, "Weight", result[1].SpecificationKey)
	assert.Equal(t, "", result[1].SpecificationValue)
	assert.Equal(t, "Voltage", result[2].SpecificationKey, "повторяющиеся ключи не схлопываются")
	assert.Equal(t, "110V", result[2].SpecificationValue)

	other, err := service.GetSpecifications(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, other, 1, "чужие характеристики не затрагиваются")
	assert.Equal(t, "Other", other[0].SpecificationKey)
}

func TestReplaceSpecifications_KeyStoredAsGiven(t *testing.T) {
	service, _, _ := newSpecService(newMemDB())

	result, err := service.ReplaceSpecifications(context.Background(), 1, specsPayload(`[{"specificationKey": " Power ", "specificationValue": "5W"}]`))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, " Power ", result[0].SpecificationKey)
}

func TestReplaceSpecifications_EmptyArrayClears(t *testing.T) {
	db := newMemDB()
	db.specs = []entities.EquipmentSpecification{{ID: 1, EquipmentID: 5, SpecificationKey: "Old"}}
	service, _, _ := newSpecService(db)

	result, err := service.ReplaceSpecifications(context.Background(), 5, specsPayload(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestReplaceSpecifications_RejectsNonArray(t *testing.T) {
	for _, raw := range []string{`{"specificationKey": "a"}`, `"text"`, `null`, ``} {
		service, tx, _ := newSpecService(newMemDB())
		_, err := service.ReplaceSpecifications(context.Background(), 1, specsPayload(raw))
		assert.ErrorIs(t, err, apperrors.ErrSpecsNotArray, raw)
		assert.Equal(t, 0, tx.calls)
	}
}

func TestReplaceSpecifications_MalformedElement(t *testing.T) {
	service, tx, _ := newSpecService(newMemDB())

	_, err := service.ReplaceSpecifications(context.Background(), 1, specsPayload(`[42]`))
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, 0, tx.calls)
}

func TestReplaceSpecifications_RollsBackOnInsertFailure(t *testing.T) {
	db := newMemDB()
	db.specs = []entities.EquipmentSpecification{{ID: 1, EquipmentID: 5, SpecificationKey: "Old", SpecificationValue: "x"}}
	service, tx, repo := newSpecService(db)
	repo.insertErr = errors.New("connection reset")

	_, err := service.ReplaceSpecifications(context.Background(), 5, specsPayload(`[{"specificationKey": "New"}]`))
	require.Error(t, err)
	assert.Equal(t, 1, tx.rollbacks)

	kept, err := service.GetSpecifications(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, kept, 1, "старый набор остается после отката")
	assert.Equal(t, "Old", kept[0].SpecificationKey)
}

func TestReplaceSpecifications_SecondReplaceLeavesOnlyNewSet(t *testing.T) {
	service, tx, _ := newSpecService(newMemDB())

	_, err := service.ReplaceSpecifications(context.Background(), 5, specsPayload(`[
		{"specificationKey": "Voltage", "specificationValue": "220V"},
		{"specificationKey": "Weight", "specificationValue": "12kg"}
	]`))
	require.NoError(t, err)
	_, err = service.ReplaceSpecifications(context.Background(), 5, specsPayload(`[{"specificationKey": "Power", "specificationValue": "5W"}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, tx.commits)

	stored, err := service.GetSpecifications(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Power", stored[0].SpecificationKey)
	assert.Equal(t, "5W", stored[0].SpecificationValue)
}
