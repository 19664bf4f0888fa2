package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "maintenance-tracker/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"http error", apperrors.NewHttpError(http.StatusConflict, "Конфликт", nil, nil), http.StatusConflict, "Конфликт"},
		{"обернутый sentinel", fmt.Errorf("service: %w", apperrors.ErrEquipmentNotFound), http.StatusNotFound, apperrors.ErrEquipmentNotFound.Error()},
		{"некорректный статус", apperrors.ErrInvalidStatus, http.StatusBadRequest, apperrors.ErrInvalidStatus.Error()},
		{"ошибка ввода", apperrors.NewInvalidInputError("поле %s", "name"), http.StatusBadRequest, "поле name"},
		{"неизвестная ошибка", errors.New("pq: connection refused"), http.StatusInternalServerError, "Внутренняя ошибка сервера"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext()
			require.NoError(t, ErrorResponse(c, tc.err, zap.NewNop()))
			assert.Equal(t, tc.code, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["status"])
			assert.Equal(t, tc.message, body["message"])
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestRawResponseSetsCacheControl(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, RawResponse(c, http.StatusOK, []int{1, 2}, CacheControlShort))
	assert.Equal(t, CacheControlShort, rec.Header().Get(echo.HeaderCacheControl))
	assert.JSONEq(t, `[1,2]`, rec.Body.String())
}

func TestParseOptionalID(t *testing.T) {
	assert.Nil(t, ParseOptionalID(""))
	assert.Nil(t, ParseOptionalID("all"))
	assert.Nil(t, ParseOptionalID("abc"))
	id := ParseOptionalID("5")
	require.NotNil(t, id)
	assert.Equal(t, uint64(5), *id)
}

func TestParseFilterFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "1000")
	values.Set("page", "3")
	values.Set("search", "MRI")
	values.Set("sort[name]", "DESC")
	values.Set("sort[bad]", "sideways")
	values.Add("filter[status]", "broken")

	f := ParseFilterFromQuery(values)
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 2*MaxLimit, f.Offset)
	assert.Equal(t, "MRI", f.Search)
	assert.Equal(t, map[string]string{"name": "desc"}, f.Sort)
	assert.Equal(t, "broken", f.Filter["status"])
	assert.True(t, f.WithPagination)

	f = ParseFilterFromQuery(url.Values{"withPagination": {"false"}})
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Zero(t, f.Offset)
	assert.False(t, f.WithPagination)
}

func TestUniqueUint64(t *testing.T) {
	assert.Equal(t, []uint64{3, 1, 2}, UniqueUint64([]uint64{3, 1, 3, 2, 1}))
	assert.Nil(t, UniqueUint64(nil))
}

func TestParseUint64Slice(t *testing.T) {
	ids, err := ParseUint64Slice([]string{" 4", "", "7 "})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 7}, ids)

	_, err = ParseUint64Slice([]string{"x"})
	assert.Error(t, err)
}
