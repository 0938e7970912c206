package config

import (
	"fmt"
	"slices"

	"github.com/Kargones/logmonitor/internal/pkg/logging"
)

// LoggingConfig содержит настройки диагностического лога.
type LoggingConfig struct {
	// Level — уровень логирования (debug, info, warn, error).
	Level string `yaml:"level" env:"LOG_MONITOR_LOG_LEVEL" env-default:"info"`

	// Format — формат логов (json, text).
	Format string `yaml:"format" env:"LOG_MONITOR_LOG_FORMAT" env-default:"text"`

	// Output — вывод логов (stderr, file).
	Output string `yaml:"output" env:"LOG_MONITOR_LOG_OUTPUT" env-default:"stderr"`

	// FilePath — путь к файлу логов при output=file.
	FilePath string `yaml:"filePath" env:"LOG_MONITOR_LOG_FILE_PATH"`

	// MaxSize — максимальный размер файла лога в MB.
	MaxSize int `yaml:"maxSize" env:"LOG_MONITOR_LOG_MAX_SIZE" env-default:"100"`

	// MaxBackups — количество ротированных файлов.
	MaxBackups int `yaml:"maxBackups" env:"LOG_MONITOR_LOG_MAX_BACKUPS" env-default:"3"`

	// MaxAge — возраст ротированных файлов в днях.
	MaxAge int `yaml:"maxAge" env:"LOG_MONITOR_LOG_MAX_AGE" env-default:"7"`

	// Compress — сжимать ротированные файлы. Значение по умолчанию задаётся
	// в DefaultLoggingConfig, чтобы compress: false из YAML не перезаписывался.
	Compress bool `yaml:"compress" env:"LOG_MONITOR_LOG_COMPRESS"`
}

// DefaultLoggingConfig возвращает настройки логирования по умолчанию.
func DefaultLoggingConfig() LoggingConfig {
	d := logging.DefaultConfig()
	return LoggingConfig{
		Level:      d.Level,
		Format:     d.Format,
		Output:     d.Output,
		FilePath:   d.FilePath,
		MaxSize:    d.MaxSize,
		MaxBackups: d.MaxBackups,
		MaxAge:     d.MaxAge,
		Compress:   d.Compress,
	}
}

// Validate проверяет перечислимые значения.
func (l *LoggingConfig) Validate() error {
	levels := []string{logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError}
	if !slices.Contains(levels, l.Level) {
		return fmt.Errorf("неизвестный уровень логирования %q", l.Level)
	}
	if l.Format != logging.FormatJSON && l.Format != logging.FormatText {
		return fmt.Errorf("неизвестный формат логов %q", l.Format)
	}
	if l.Output != logging.OutputStderr && l.Output != logging.OutputFile {
		return fmt.Errorf("неизвестный вывод логов %q", l.Output)
	}
	return nil
}

// ToLogging переводит секцию в logging.Config.
func (l *LoggingConfig) ToLogging() logging.Config {
	return logging.Config{
		Level:      l.Level,
		Format:     l.Format,
		Output:     l.Output,
		FilePath:   l.FilePath,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}
