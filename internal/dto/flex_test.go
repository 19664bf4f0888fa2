package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTime(t *testing.T) {
	cases := []struct {
		raw   string
		valid bool
		want  time.Time
	}{
		{`"2026-03-10"`, true, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{`"2026-03-10T08:15:00Z"`, true, time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)},
		{`""`, false, time.Time{}},
		{`"  "`, false, time.Time{}},
		{`null`, false, time.Time{}},
	}
	for _, tc := range cases {
		var v FlexTime
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &v), tc.raw)
		assert.Equal(t, tc.valid, v.Valid, tc.raw)
		if tc.valid {
			assert.True(t, tc.want.Equal(v.Time.Time), tc.raw)
		}
	}

	for _, raw := range []string{`"10/03/2026"`, `20260310`, `true`} {
		var v FlexTime
		assert.Error(t, json.Unmarshal([]byte(raw), &v), raw)
	}
}

func TestFlexBool(t *testing.T) {
	cases := map[string]bool{
		`true`: true, `"true"`: true, `"TRUE"`: true, `1`: true, `"1"`: true,
		`false`: false, `"false"`: false, `0`: false, `"0"`: false, `""`: false, `null`: false,
	}
	for raw, want := range cases {
		var v FlexBool
		require.NoError(t, json.Unmarshal([]byte(raw), &v), raw)
		assert.Equal(t, want, bool(v), raw)
	}

	var v FlexBool
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &v))
}

func TestUpdateMaintenanceDTO_Changes(t *testing.T) {
	var payload UpdateMaintenanceDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"maintenanceType": " repair ",
		"performedBy": "Petrov",
		"performedDate": "",
		"scheduledDate": "",
		"cost": "99.90",
		"notes": null
	}`), &payload))

	changes := payload.Changes()
	assert.Equal(t, "repair", changes["type"])
	assert.Equal(t, "Petrov", changes["technician"])
	assert.NotContains(t, changes, "date", "пустая дата не стирает обязательную колонку")
	assert.Contains(t, changes, "scheduled_date", "пустая необязательная дата очищается")
	assert.NotContains(t, changes, "notes", "null не отличается от отсутствующего поля")
	assert.False(t, payload.IsEmpty())

	assert.True(t, UpdateMaintenanceDTO{}.IsEmpty())
}

func TestCreateMaintenanceDTO_LegacyFieldNames(t *testing.T) {
	var payload CreateMaintenanceDTO
	require.NoError(t, json.Unmarshal([]byte(`{"type":"","maintenanceType":"inspection","performedBy":"Ivanov"}`), &payload))

	assert.Equal(t, "inspection", payload.ResolvedType())
	assert.Equal(t, "Ivanov", payload.ResolvedTechnician().String)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now, payload.ResolvedDate(now))
}

func TestUpdateEquipmentDTO_Changes(t *testing.T) {
	var payload UpdateEquipmentDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "   ",
		"status": "",
		"model": "",
		"departmentId": "5",
		"hasServiceContract": "0"
	}`), &payload))

	changes := payload.Changes()
	assert.NotContains(t, changes, "name")
	assert.NotContains(t, changes, "status")
	assert.Equal(t, "", changes["model"])
	assert.Equal(t, uint64(5), changes["department_id"])
	assert.Equal(t, false, changes["has_service_contract"])

	target, ok := payload.TargetDepartment()
	assert.True(t, ok)
	assert.Equal(t, uint64(5), target)
}
