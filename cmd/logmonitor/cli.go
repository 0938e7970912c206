package main

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/Kargones/logmonitor/internal/config"
	"github.com/Kargones/logmonitor/internal/constants"
	"github.com/Kargones/logmonitor/internal/di"
	"github.com/Kargones/logmonitor/internal/pkg/apperrors"
	"github.com/Kargones/logmonitor/internal/pkg/output"
)

// shutdownTimeout ограничивает push метрик и завершение трейсинга.
const shutdownTimeout = 5 * time.Second

// cli хранит потоки ввода-вывода и глобальные флаги.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath   string
	outputFormat string
}

// exitError сообщает run, с каким кодом завершиться. Результат к этому
// моменту уже выведен.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// bootstrap загружает конфигурацию и собирает App.
func (c *cli) bootstrap() (*di.App, error) {
	cfg, err := config.Load(config.ResolvePath(c.configPath))
	if err != nil {
		return nil, err
	}
	return di.InitializeApp(cfg)
}

// shutdown завершает App с ограничением по времени.
func (c *cli) shutdown(app *di.App) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Close(ctx); err != nil {
		app.Logger.Error("ошибка завершения", "error", err.Error(), "trace_id", app.TraceID)
	}
}

// writer выбирает формат вывода: флаг -o, затем LOG_MONITOR_OUTPUT_FORMAT.
func (c *cli) writer(app *di.App) output.Writer {
	switch {
	case c.outputFormat != "":
		return output.NewWriter(c.outputFormat)
	case app != nil:
		return app.OutputWriter
	default:
		return di.ProvideOutputWriter()
	}
}

// succeed выводит успешный результат.
func (c *cli) succeed(app *di.App, result *output.Result) error {
	return c.writer(app).Write(c.stdout, result)
}

// fail выводит результат с ошибкой и возвращает exitError.
// Ошибки конфигурации завершаются кодом ExitConfigError.
func (c *cli) fail(app *di.App, command string, err error, fallbackCode string, start time.Time, data any) error {
	traceID := ""
	if app != nil {
		traceID = app.TraceID
	}
	result := output.NewErrorResult(command, err, fallbackCode, traceID, start)
	result.Data = data
	if writeErr := c.writer(app).Write(c.stdout, result); writeErr != nil {
		return writeErr
	}

	code := constants.ExitFailure
	if strings.HasPrefix(result.Error.Code, "CONFIG.") {
		code = constants.ExitConfigError
	}
	return &exitError{code: code, err: err}
}

// bootstrapFailure оформляет ошибку bootstrap: всё, что не является
// *apperrors.AppError, считается ошибкой загрузки конфигурации.
func (c *cli) bootstrapFailure(command string, err error, start time.Time) error {
	return c.fail(nil, command, err, apperrors.ErrConfigLoad, start, nil)
}
