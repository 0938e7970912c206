// Package apperrors предоставляет структурированные ошибки приложения.
// Назван не errors, чтобы не конфликтовать со стандартной библиотекой.
package apperrors

import (
	"errors"
	"fmt"
)

// Коды ошибок в формате CATEGORY.SPECIFIC.
const (
	// CONFIG — загрузка, разбор и проверка конфигурации. Фатальны при старте.
	ErrConfigLoad     = "CONFIG.LOAD_FAILED"
	ErrConfigParse    = "CONFIG.PARSE_FAILED"
	ErrConfigValidate = "CONFIG.VALIDATION_FAILED"

	// INPUT — разбор входящих записей журнала.
	ErrInputDecode = "INPUT.DECODE_FAILED"

	// DELIVERY — отправка уведомлений из CLI (send).
	ErrDeliveryFailed = "DELIVERY.FAILED"

	// OUTPUT — форматирование результатов команд.
	ErrOutputFormat = "OUTPUT.FORMAT_FAILED"
)

// AppError — ошибка с машиночитаемым кодом.
// Message не должен содержать секреты: он попадает в вывод CLI.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает причину для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError создаёт AppError.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// CodeOf возвращает код первой AppError в цепочке или fallback.
func CodeOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return fallback
}
