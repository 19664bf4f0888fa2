package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"maintenance-tracker/pkg/utils"

	"github.com/aarondl/null/v8"
)

// FlexID принимает идентификатор и числом, и строкой ("5"), как присылают формы.
type FlexID uint64

func (f *FlexID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*f = 0
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(strings.TrimSpace(s))
		if len(raw) == 0 {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный идентификатор %s", string(data))
	}
	*f = FlexID(n)
	return nil
}

// FlexFloat - nullable число, допускающее строковую запись ("12.50") для денежных полей.
type FlexFloat struct {
	null.Float64
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		f.Float64 = null.Float64{}
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			f.Float64 = null.Float64{}
			return nil
		}
		raw = []byte(s)
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return fmt.Errorf("некорректное число %s", string(data))
	}
	f.Float64 = null.Float64From(v)
	return nil
}

// FlexInt - то же для целых (количество).
type FlexInt struct {
	null.Int
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		f.Int = null.Int{}
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			f.Int = null.Int{}
			return nil
		}
		raw = []byte(s)
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return fmt.Errorf("некорректное целое %s", string(data))
	}
	f.Int = null.IntFrom(v)
	return nil
}

// FlexTime - дата из формы: "2026-03-10", RFC 3339 или пустая строка (нет даты).
type FlexTime struct {
	null.Time
}

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		f.Time = null.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("некорректная дата %s", string(data))
	}
	if strings.TrimSpace(s) == "" {
		f.Time = null.Time{}
		return nil
	}
	t, err := utils.ParseDate(s)
	if err != nil {
		return err
	}
	f.Time = null.TimeFrom(t)
	return nil
}

// FlexBool принимает true/false, 0/1 и их строковую запись.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(raw) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("некорректное логическое значение %s", string(data))
	}
	return nil
}
