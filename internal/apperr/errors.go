package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	CodeNotFound            = "NOT_FOUND"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeDateConflict        = "DATE_CONFLICT"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeAlreadyCancelled    = "ALREADY_CANCELLED"
	CodeNotEditable         = "NOT_EDITABLE"
	CodeNotDeletable        = "NOT_DELETABLE"
	CodeInvalidRange        = "INVALID_RANGE"
	CodeConflict            = "CONFLICT" // конкурентный доступ, операцию можно повторить
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInternal            = "INTERNAL_ERROR"
)

// Error ошибка уровня приложения с машинным кодом и деталями
// для ответа клиенту
type Error struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// Is позволяет сравнивать ошибки по коду через errors.Is
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

func NotFound(resource string) *Error {
	return &Error{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func AccessDenied(message string) *Error {
	return &Error{
		Code:       CodeAccessDenied,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func InvalidTransition(message string) *Error {
	return &Error{
		Code:       CodeInvalidTransition,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// DateConflict сообщает первый занятый день диапазона
func DateConflict(day time.Time, reason string) *Error {
	return &Error{
		Code:       CodeDateConflict,
		Message:    fmt.Sprintf("date %s is not available: %s", day.Format("2006-01-02"), reason),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"date":   day.Format("2006-01-02"),
			"reason": reason,
		},
	}
}

// InsufficientCredits сообщает сколько требуется и сколько доступно
// по каждому измерению квоты
func InsufficientCredits(dimension string, required, available int) *Error {
	return &Error{
		Code:       CodeInsufficientCredits,
		Message:    fmt.Sprintf("insufficient %s credits: required %d, available %d", dimension, required, available),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"dimension": dimension,
			"required":  required,
			"available": available,
		},
	}
}

func AlreadyCancelled() *Error {
	return &Error{
		Code:       CodeAlreadyCancelled,
		Message:    "booking is already cancelled",
		HTTPStatus: http.StatusConflict,
	}
}

func NotEditable(message string) *Error {
	return &Error{
		Code:       CodeNotEditable,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func NotDeletable(message string) *Error {
	return &Error{
		Code:       CodeNotDeletable,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func InvalidRange(message string) *Error {
	return &Error{
		Code:       CodeInvalidRange,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Conflict конкурентная модификация, клиент может повторить запрос
func Conflict(message string) *Error {
	return &Error{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func InvalidInput(message string) *Error {
	return &Error{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Internal(message string, err error) *Error {
	return &Error{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// As извлекает *Error из цепочки, заворачивая неизвестные
// ошибки во внутреннюю
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}
