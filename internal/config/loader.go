package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Kargones/logmonitor/internal/constants"
	"github.com/Kargones/logmonitor/internal/pkg/apperrors"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// ResolvePath возвращает путь к файлу конфигурации: флаг, если задан,
// иначе переменная LOG_MONITOR_CONFIG. Пустой результат означает
// «только значения по умолчанию и переменные окружения».
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(constants.EnvConfigPath)
}

// Load загружает конфигурацию: значения по умолчанию, YAML файл path
// (если задан), переменные окружения, затем проверка.
// Ошибки возвращаются как *apperrors.AppError с кодом CONFIG.*.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
				fmt.Sprintf("не удалось прочитать файл конфигурации %s", path), err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigParse,
				fmt.Sprintf("не удалось разобрать файл конфигурации %s", path), err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать переменные окружения", err)
	}

	cfg.Tracing.Version = constants.Version

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate,
			"конфигурация не прошла проверку", err)
	}
	return cfg, nil
}

// IsValidationError сообщает, что ошибка Load вызвана проверкой значений,
// а не чтением или разбором файла.
func IsValidationError(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == apperrors.ErrConfigValidate
}
