// Package logging предоставляет интерфейс структурированного логирования
// поверх log/slog и его реализации.
package logging

// Logger определяет интерфейс для структурированного логирования.
// Аргументы после сообщения — пары ключ-значение:
//
//	logger.Info("уведомление отправлено", "channel", "mattermost", "target", id)
//
// Logger пишет диагностический поток монитора и никогда не пишет в stdout:
// stdout занят результатами команд CLI.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With возвращает Logger с атрибутами, добавляемыми ко всем записям.
	With(args ...any) Logger
}
