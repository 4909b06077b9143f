package models

import (
	"fmt"
	"net/http"
)

// ErrorKind - категория ошибки, возвращаемая клиенту вместе с сообщением.
type ErrorKind string

const (
	NotFound          ErrorKind = "NotFound"          // Работа, подрядчик или заявка не найдены
	InvalidState      ErrorKind = "InvalidState"      // Действие недопустимо в текущем статусе
	InvalidTransition ErrorKind = "InvalidTransition" // Запрошенный переход статуса не разрешён
	Conflict          ErrorKind = "Conflict"          // Параллельное изменение той же работы
	ValidationError   ErrorKind = "ValidationError"   // Некорректные или отсутствующие поля
	RateLimited       ErrorKind = "RateLimited"       // Превышен лимит запросов
	Internal          ErrorKind = "Internal"
)

// ErrorResponse описывает ошибку с кодом, категорией и сообщением.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"error"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
// Категория выводится из HTTP-кода.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Kind:       kindForStatus(statusCode),
		Message:    message}
}

// NewNotFound создает ошибку NotFound.
func NewNotFound(format string, args ...any) *ErrorResponse {
	return newKindError(http.StatusNotFound, NotFound, format, args...)
}

// NewInvalidState создает ошибку InvalidState.
func NewInvalidState(format string, args ...any) *ErrorResponse {
	return newKindError(http.StatusConflict, InvalidState, format, args...)
}

// NewInvalidTransition создает ошибку InvalidTransition.
func NewInvalidTransition(format string, args ...any) *ErrorResponse {
	return newKindError(http.StatusConflict, InvalidTransition, format, args...)
}

// NewConflict создает ошибку Conflict.
func NewConflict(format string, args ...any) *ErrorResponse {
	return newKindError(http.StatusConflict, Conflict, format, args...)
}

// NewValidationError создает ошибку ValidationError.
func NewValidationError(format string, args ...any) *ErrorResponse {
	return newKindError(http.StatusBadRequest, ValidationError, format, args...)
}

func newKindError(statusCode int, kind ErrorKind, format string, args ...any) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
	}
}

func kindForStatus(statusCode int) ErrorKind {
	switch statusCode {
	case http.StatusNotFound:
		return NotFound
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return ValidationError
	case http.StatusConflict:
		return Conflict
	case http.StatusTooManyRequests:
		return RateLimited
	default:
		return Internal
	}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
