package utils

import (
	"fmt"
	"strings"
	"time"

	apperrors "maintenance-tracker/pkg/errors"
)

const dateOnlyLayout = "2006-01-02"

// Форматы дат, которые присылают формы и фильтры отчетов. Время без зоны считается UTC.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", dateOnlyLayout}

// ParseDate разбирает дату в одном из поддерживаемых форматов.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("некорректная дата %q", raw)
}

// ParseOptionalDate - для query-параметров startDate/endDate. Пустое значение дает nil.
// endOfDay сдвигает дату без времени на конец суток, чтобы граница включала весь день.
func ParseOptionalDate(raw, param string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("Параметр %s: ожидается дата в формате ГГГГ-ММ-ДД", param)
	}
	if endOfDay && len(raw) == len(dateOnlyLayout) {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t, nil
}
