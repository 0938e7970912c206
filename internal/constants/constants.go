// Package constants содержит константы, общие для всех пакетов logmonitor.
package constants

// Идентификация приложения.
const (
	// AppName — имя бинарника и значение по умолчанию для service name и job name.
	AppName = "logmonitor"

	// PackageName — имя продукта в теме письма и подвале уведомлений.
	PackageName = "Log Monitor"

	// PackageURL — ссылка в подвале писем.
	PackageURL = "https://github.com/Kargones/logmonitor"

	// UserAgent — заголовок User-Agent исходящих HTTP запросов.
	UserAgent = AppName + "/1.0"

	// APIVersion — версия формата вывода команд CLI.
	APIVersion = "v1"
)

// Версия сборки. Переопределяется через -ldflags "-X".
var (
	// Version — версия приложения.
	Version = "dev"
	// PreCommitHash — хэш коммита сборки.
	PreCommitHash = "unknown"
)

// Коды завершения CLI.
const (
	// ExitOK — успешное завершение.
	ExitOK = 0
	// ExitFailure — ошибка выполнения команды.
	ExitFailure = 1
	// ExitConfigError — конфигурация не загружена или не прошла валидацию.
	ExitConfigError = 5
)

// Имена переменных окружения, не относящиеся к отдельным секциям конфигурации.
const (
	// EnvConfigPath — путь к YAML файлу конфигурации.
	EnvConfigPath = "LOG_MONITOR_CONFIG"
	// EnvOutputFormat — формат вывода результатов команд (text, json).
	EnvOutputFormat = "LOG_MONITOR_OUTPUT_FORMAT"
)
