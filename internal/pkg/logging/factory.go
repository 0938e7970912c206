package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Kargones/logmonitor/internal/constants"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger создаёт Logger по конфигурации.
// Output="file" пишет в файл с ротацией через lumberjack, иначе в stderr.
// Неизвестный Output и пустой FilePath откатываются на stderr с предупреждением.
func NewLogger(config Config) Logger {
	return NewSlogAdapter(slog.New(NewHandler(config, writerFor(config))))
}

// NewLoggerWithWriter создаёт Logger, пишущий в w. Используется в тестах.
func NewLoggerWithWriter(config Config, w io.Writer) Logger {
	return NewSlogAdapter(slog.New(NewHandler(config, w)))
}

// NewHandler создаёт slog.Handler нужного формата и уровня.
func NewHandler(config Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}
	if config.Format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func writerFor(config Config) io.Writer {
	switch config.Output {
	case OutputFile:
		return newLumberjackWriter(config)
	case OutputStderr, "":
		return os.Stderr
	default:
		bootstrapWarn(fmt.Sprintf("неизвестный logging output %q, используется stderr", config.Output))
		return os.Stderr
	}
}

// newLumberjackWriter создаёт writer с ротацией и при необходимости каталог для файла.
func newLumberjackWriter(config Config) io.Writer {
	if config.FilePath == "" {
		bootstrapWarn("logging output=file, но filePath пуст, используется stderr")
		return os.Stderr
	}

	if dir := filepath.Dir(config.FilePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermStandard); err != nil {
			bootstrapWarn(fmt.Sprintf("не удалось создать каталог логов %q: %v, используется stderr", dir, err))
			return os.Stderr
		}
	}

	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}
}

// bootstrapWarn пишет в stderr до того, как логгер создан.
func bootstrapWarn(msg string) {
	_, _ = os.Stderr.WriteString("WARNING: " + msg + "\n") //nolint:errcheck // bootstrap stderr
}

// parseLevel конвертирует строковый уровень в slog.Level.
// Неизвестное значение трактуется как info.
func parseLevel(level string) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
