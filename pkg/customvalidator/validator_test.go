package customvalidator

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusPayload struct {
	Status string `validate:"required,equipment_status"`
}

type optionalStatusPayload struct {
	Status   null.String `validate:"omitempty,equipment_status"`
	Override *string     `validate:"omitempty,equipment_status"`
}

type nullPayload struct {
	Email null.String `validate:"omitempty,email"`
	Count null.Int    `validate:"omitempty,gte=0"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestEquipmentStatusRule(t *testing.T) {
	v := newValidator(t)

	cases := []struct {
		name  string
		in    string
		valid bool
	}{
		{"operational", "operational", true},
		{"maintenance", "maintenance", true},
		{"broken", "broken", true},
		{"retired", "retired", true},
		{"empty", "", false},
		{"unknown", "under_maintenance", false},
		{"uppercase", "BROKEN", false},
		{"padded", " broken", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(statusPayload{Status: tc.in})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNullTypesAreUnwrapped(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(nullPayload{}), "пустые null-поля должны пропускаться через omitempty")
	assert.NoError(t, v.Struct(nullPayload{Email: null.StringFrom("tech@clinic.org"), Count: null.IntFrom(3)}))
	assert.Error(t, v.Struct(nullPayload{Email: null.StringFrom("not-an-email")}))
	assert.Error(t, v.Struct(nullPayload{Count: null.IntFrom(-1)}))
}

func TestOptionalEquipmentStatus(t *testing.T) {
	v := newValidator(t)
	broken, melted, empty := "broken", "melted", ""

	assert.NoError(t, v.Struct(optionalStatusPayload{}))
	assert.NoError(t, v.Struct(optionalStatusPayload{Status: null.StringFrom("retired"), Override: &broken}))
	assert.NoError(t, v.Struct(optionalStatusPayload{Override: &empty}), "пустая строка пропускается, ее отсекает сервис")
	assert.Error(t, v.Struct(optionalStatusPayload{Status: null.StringFrom("melted")}))
	assert.Error(t, v.Struct(optionalStatusPayload{Override: &melted}))
}
