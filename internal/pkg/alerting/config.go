package alerting

import "slices"

// Значения по умолчанию для конфигурации мониторинга.
const (
	// DefaultEnvironments — окружения, в которых мониторинг работает по умолчанию.
	DefaultEnvironments = "production"
)

// Config — неизменяемый после старта снимок настроек доставки.
// Создаётся один раз при загрузке конфигурации и разделяется всеми
// обработчиками событий только на чтение.
type Config struct {
	// Enabled — глобальный выключатель. При false события не обрабатываются
	// и валидация каналов не выполняется.
	Enabled bool `yaml:"enabled" env:"LOG_MONITOR_ENABLED"`

	// Environments — список окружений через запятую, в которых мониторинг активен.
	// Сравнение с текущим окружением регистрозависимое.
	Environments string `yaml:"environments" env:"LOG_MONITOR_ENVIRONMENTS" env-default:"production"`

	// Mattermost — настройки чат-канала.
	Mattermost MattermostConfig `yaml:"mattermost"`

	// Email — настройки email канала.
	Email EmailConfig `yaml:"email"`
}

// DefaultConfig возвращает конфигурацию со значениями по умолчанию.
// Мониторинг выключен, оба канала включены, email работает как резервный.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		Environments: DefaultEnvironments,
		Mattermost:   DefaultMattermostConfig(),
		Email:        DefaultEmailConfig(),
	}
}

// EnvironmentList возвращает разобранный список окружений.
func (c *Config) EnvironmentList() []string {
	return SplitList(c.Environments)
}

// AllowsEnvironment проверяет, входит ли окружение в список разрешённых.
func (c *Config) AllowsEnvironment(env string) bool {
	return slices.Contains(c.EnvironmentList(), env)
}

// Validator — независимая проверка одной части конфигурации.
type Validator func() error

// Validators возвращает набор проверок по каналам.
// Каждый канал проверяет только себя и пропускает проверку, если выключен.
func (c *Config) Validators() []Validator {
	return []Validator{
		c.Mattermost.Validate,
		c.Email.Validate,
	}
}

// Validate прогоняет все проверки и возвращает первую ошибку.
// Если мониторинг выключен, проверки не выполняются.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	for _, validate := range c.Validators() {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}
