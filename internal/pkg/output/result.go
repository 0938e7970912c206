// Package output форматирует результаты команд logmonitor в JSON или текст.
package output

import (
	"errors"
	"time"

	"github.com/Kargones/logmonitor/internal/constants"
	"github.com/Kargones/logmonitor/internal/pkg/apperrors"
)

// StatusSuccess и StatusError — возможные значения поля Status в Result.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result — структурированный результат выполнения команды.
type Result struct {
	// Status — "success" или "error".
	Status string `json:"status"`

	// Command — имя выполненной команды.
	Command string `json:"command"`

	// Data — данные команды, например отчёт о доставке.
	Data any `json:"data,omitempty"`

	// Error заполняется только при Status="error".
	Error *ErrorInfo `json:"error,omitempty"`

	// Metadata — метаданные выполнения.
	Metadata *Metadata `json:"metadata,omitempty"`

	// Summary копируется JSONWriter-ом в Metadata.Summary.
	Summary *SummaryInfo `json:"-"`
}

// ErrorInfo — ошибка в машиночитаемом виде.
// Message не должен содержать секреты.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata содержит метаданные выполнения команды.
type Metadata struct {
	DurationMs int64        `json:"duration_ms"`
	TraceID    string       `json:"trace_id,omitempty"`
	APIVersion string       `json:"api_version"`
	Summary    *SummaryInfo `json:"summary,omitempty"`
}

// NewResult создаёт успешный Result с метаданными.
func NewResult(command string, data any, traceID string, start time.Time) *Result {
	return &Result{
		Status:   StatusSuccess,
		Command:  command,
		Data:     data,
		Metadata: newMetadata(traceID, start),
	}
}

// NewErrorResult создаёт Result с ошибкой. Код берётся из *apperrors.AppError,
// для прочих ошибок используется fallbackCode.
func NewErrorResult(command string, err error, fallbackCode, traceID string, start time.Time) *Result {
	info := &ErrorInfo{Code: apperrors.CodeOf(err, fallbackCode), Message: err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		info.Message = appErr.Message
	}
	return &Result{
		Status:   StatusError,
		Command:  command,
		Error:    info,
		Metadata: newMetadata(traceID, start),
	}
}

func newMetadata(traceID string, start time.Time) *Metadata {
	return &Metadata{
		DurationMs: time.Since(start).Milliseconds(),
		TraceID:    traceID,
		APIVersion: constants.APIVersion,
	}
}
