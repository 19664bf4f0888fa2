package errors

import (
	"fmt"
	"net/http"
)

var (
	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Оборудование
	ErrEquipmentNotFound  = fmt.Errorf("оборудование не найдено")
	ErrDepartmentNotFound = fmt.Errorf("отдел не найден")
	ErrDepartmentRequired = fmt.Errorf("не указан ID отдела")
	ErrStatusRequired     = fmt.Errorf("не указан статус")
	ErrInvalidStatus      = fmt.Errorf("недопустимый статус оборудования")
	ErrSpecsNotArray      = fmt.Errorf("specifications должен быть массивом")
	ErrEquipmentRequired  = fmt.Errorf("не указан ID оборудования")
	ErrNameRequired       = fmt.Errorf("не указано наименование оборудования")

	// Обслуживание
	ErrMaintenanceNotFound     = fmt.Errorf("запись об обслуживании не найдена")
	ErrMaintenanceTypeRequired = fmt.Errorf("не указан тип обслуживания")
	ErrRequestNotFound         = fmt.Errorf("заявка на обслуживание не найдена")
	ErrChecklistItemNotFound   = fmt.Errorf("пункт чек-листа не найден")
	ErrChecklistItemRequired   = fmt.Errorf("не указано описание пункта чек-листа")
)

// HttpError несет HTTP-код и сообщение для клиента.
// Err и Context уходят только в лог.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

func NewInternalError(message string) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message}
}

// InvalidInputError - некорректный параметр запроса, сообщение уходит клиенту как есть.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
