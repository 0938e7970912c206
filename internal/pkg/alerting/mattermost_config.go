package alerting

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Значения по умолчанию для Mattermost.
const (
	// DefaultRetryTimes — общее число попыток отправки (не число повторов).
	DefaultRetryTimes = 3

	// DefaultRetryDelay — фиксированная пауза между попытками.
	DefaultRetryDelay = 100 * time.Millisecond

	// DefaultMattermostTimeout — таймаут одной попытки создания поста.
	DefaultMattermostTimeout = 10 * time.Second

	// DefaultFileUploadTimeout — таймаут одной попытки загрузки файла.
	DefaultFileUploadTimeout = 30 * time.Second

	// DefaultMaxPostLength — максимальная длина поста в символах.
	DefaultMaxPostLength = 16383
)

// MattermostConfig содержит настройки чат-канала.
type MattermostConfig struct {
	// Enabled — включён ли канал. YAML false сохраняется: значение по умолчанию
	// задаётся в DefaultMattermostConfig, а не через env-default.
	Enabled bool `yaml:"enabled" env:"LOG_MONITOR_MATTERMOST_ENABLED"`

	// URL — базовый адрес сервера, например https://mm.example.com.
	URL string `yaml:"url" env:"LOG_MONITOR_MATTERMOST_URL"`

	// Token — bearer-токен бота или персональный токен доступа.
	Token string `yaml:"token" env:"LOG_MONITOR_MATTERMOST_TOKEN"`

	// ChannelID — канал по умолчанию (ключевое слово "default" в событии).
	ChannelID string `yaml:"channelId" env:"LOG_MONITOR_MATTERMOST_CHANNEL_ID"`

	// AdditionalChannels — именованные группы каналов.
	// В env: "payments:id1|id2,critical:id3".
	AdditionalChannels ChannelGroups `yaml:"additionalChannels" env:"LOG_MONITOR_MATTERMOST_ADDITIONAL_CHANNELS"`

	// RetryTimes — общее число попыток на один пост или загрузку файла.
	RetryTimes int `yaml:"retryTimes" env:"LOG_MONITOR_MATTERMOST_RETRY_TIMES" env-default:"3"`

	// RetryDelay — пауза между попытками, без экспоненциального роста.
	RetryDelay time.Duration `yaml:"retryDelay" env:"LOG_MONITOR_MATTERMOST_RETRY_DELAY" env-default:"100ms"`

	// Timeout — таймаут одной попытки создания поста.
	Timeout time.Duration `yaml:"timeout" env:"LOG_MONITOR_MATTERMOST_TIMEOUT" env-default:"10s"`

	// FileUploadTimeout — таймаут одной попытки загрузки файла.
	FileUploadTimeout time.Duration `yaml:"fileUploadTimeout" env:"LOG_MONITOR_MATTERMOST_FILE_UPLOAD_TIMEOUT" env-default:"30s"`

	// MaxPostLength — предел длины поста в символах, после которого
	// полный текст уходит вложением.
	MaxPostLength int `yaml:"maxPostLength" env:"LOG_MONITOR_MATTERMOST_MAX_POST_LENGTH" env-default:"16383"`

	// MessageTemplate — путь к собственному text/template для тела поста.
	// Пусто — встроенный шаблон.
	MessageTemplate string `yaml:"messageTemplate" env:"LOG_MONITOR_MATTERMOST_TEMPLATE"`
}

// DefaultMattermostConfig возвращает настройки канала по умолчанию.
func DefaultMattermostConfig() MattermostConfig {
	return MattermostConfig{
		Enabled:           true,
		RetryTimes:        DefaultRetryTimes,
		RetryDelay:        DefaultRetryDelay,
		Timeout:           DefaultMattermostTimeout,
		FileUploadTimeout: DefaultFileUploadTimeout,
		MaxPostLength:     DefaultMaxPostLength,
	}
}

// withDefaults подставляет значения по умолчанию вместо нулевых.
// RetryDelay=0 допустим и не заменяется.
func (m MattermostConfig) withDefaults() MattermostConfig {
	if m.RetryTimes <= 0 {
		m.RetryTimes = DefaultRetryTimes
	}
	if m.Timeout <= 0 {
		m.Timeout = DefaultMattermostTimeout
	}
	if m.FileUploadTimeout <= 0 {
		m.FileUploadTimeout = DefaultFileUploadTimeout
	}
	if m.MaxPostLength <= 0 {
		m.MaxPostLength = DefaultMaxPostLength
	}
	if m.RetryDelay < 0 {
		m.RetryDelay = 0
	}
	return m
}

// Validate проверяет обязательные поля включённого канала и группы каналов.
func (m *MattermostConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	if m.URL == "" {
		return ErrMattermostURLRequired
	}
	u, err := url.Parse(m.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrMattermostURLInvalid
	}
	if m.Token == "" {
		return ErrMattermostTokenRequired
	}
	if m.ChannelID == "" {
		return ErrMattermostChannelRequired
	}
	for _, name := range m.AdditionalChannels.Names() {
		group := m.AdditionalChannels[name]
		if len(group) == 0 {
			return &ChannelGroupError{Name: name, Err: ErrChannelGroupEmpty}
		}
		for _, id := range group {
			if strings.TrimSpace(id) == "" {
				return &ChannelGroupError{Name: name, Err: ErrChannelGroupEmptyID}
			}
		}
	}
	return nil
}

// ChannelGroupError — ошибка конкретной именованной группы каналов.
type ChannelGroupError struct {
	Name string
	Err  error
}

func (e *ChannelGroupError) Error() string {
	return strings.Replace(e.Err.Error(), "additional channel", fmt.Sprintf("additional channel '%s'", e.Name), 1)
}

func (e *ChannelGroupError) Unwrap() error {
	return e.Err
}

// ChannelGroup — один или несколько идентификаторов каналов под общим именем.
// В YAML задаётся строкой или списком строк.
type ChannelGroup []string

// UnmarshalYAML принимает как скаляр, так и последовательность.
func (g *ChannelGroup) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var id string
		if err := value.Decode(&id); err != nil {
			return err
		}
		*g = ChannelGroup{id}
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := value.Decode(&ids); err != nil {
			return err
		}
		*g = ChannelGroup(ids)
		return nil
	default:
		return fmt.Errorf("alerting: channel group must be a string or a list of strings (line %d)", value.Line)
	}
}

// ChannelGroups — именованные группы каналов.
type ChannelGroups map[string]ChannelGroup

// Names возвращает имена групп в отсортированном порядке.
func (g ChannelGroups) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetValue разбирает значение переменной окружения вида
// "payments:id1|id2,critical:id3". Реализует cleanenv.Setter.
// Пустой список после двоеточия сохраняется, чтобы его отловила валидация.
func (g *ChannelGroups) SetValue(s string) error {
	groups := make(ChannelGroups)
	for _, entry := range SplitList(s) {
		name, ids, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("alerting: invalid channel group %q, expected name:id1|id2", entry)
		}
		group := ChannelGroup{}
		if ids = strings.TrimSpace(ids); ids != "" {
			for _, id := range strings.Split(ids, "|") {
				group = append(group, strings.TrimSpace(id))
			}
		}
		groups[name] = group
	}
	*g = groups
	return nil
}
