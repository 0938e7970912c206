// Package config загружает конфигурацию logmonitor.
//
// Порядок источников: значения по умолчанию, затем YAML файл, затем
// переменные окружения. Переменные окружения всегда имеют приоритет.
// Каждая секция проверяет себя сама; Validate собирает проверки вместе.
package config

import (
	"errors"
	"fmt"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"
	"github.com/Kargones/logmonitor/internal/pkg/audit"
	"github.com/Kargones/logmonitor/internal/pkg/metrics"
	"github.com/Kargones/logmonitor/internal/pkg/tracing"
)

// Config — полная конфигурация приложения.
type Config struct {
	// App — сведения о приложении, события которого отслеживаются.
	App AppConfig `yaml:"app"`

	// Monitor — фильтрация событий и каналы доставки.
	Monitor alerting.Config `yaml:"monitor"`

	// Logging — диагностический лог самого logmonitor.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics — Prometheus метрики доставки.
	Metrics metrics.Config `yaml:"metrics"`

	// Tracing — OpenTelemetry трейсинг.
	Tracing tracing.Config `yaml:"tracing"`

	// Audit — публикация сигналов доставки в Redis.
	Audit audit.Config `yaml:"audit"`
}

// AppConfig описывает приложение-хост.
type AppConfig struct {
	// Name — имя приложения в заголовке поста и в письме.
	Name string `yaml:"name" env:"APP_NAME" env-default:"logmonitor"`

	// Environment — текущее окружение, сравнивается с monitor.environments.
	Environment string `yaml:"environment" env:"APP_ENV" env-default:"production"`
}

// Default возвращает конфигурацию со значениями по умолчанию всех секций.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "logmonitor",
			Environment: "production",
		},
		Monitor: alerting.DefaultConfig(),
		Logging: DefaultLoggingConfig(),
		Metrics: metrics.DefaultConfig(),
		Tracing: tracing.DefaultConfig(),
		Audit:   audit.DefaultConfig(),
	}
}

// section — именованная проверка одной секции.
type section struct {
	name     string
	validate func() error
}

// Validate проверяет все секции и возвращает объединённую ошибку.
// Каждая ошибка помечена именем секции.
func (c *Config) Validate() error {
	sections := []section{
		{name: "monitor", validate: c.Monitor.Validate},
		{name: "logging", validate: c.Logging.Validate},
		{name: "metrics", validate: c.Metrics.Validate},
		{name: "tracing", validate: c.Tracing.Validate},
		{name: "audit", validate: c.Audit.Validate},
	}

	var errs []error
	for _, s := range sections {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
