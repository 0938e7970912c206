package alerting

import (
	"errors"
	"fmt"
)

// Ошибки валидации конфигурации.
var (
	// ErrMattermostURLRequired — не указан адрес сервера Mattermost.
	ErrMattermostURLRequired = errors.New("alerting: Mattermost URL is required when Mattermost is enabled")

	// ErrMattermostURLInvalid — адрес сервера без схемы/хоста или со схемой, отличной от http(s).
	ErrMattermostURLInvalid = errors.New("alerting: Mattermost URL must be an absolute http(s) URL")

	// ErrMattermostTokenRequired — не указан токен доступа.
	ErrMattermostTokenRequired = errors.New("alerting: Mattermost token is required when Mattermost is enabled")

	// ErrMattermostChannelRequired — не указан канал по умолчанию.
	ErrMattermostChannelRequired = errors.New("alerting: Mattermost channel_id is required when Mattermost is enabled")

	// ErrChannelGroupEmpty — именованная группа каналов без идентификаторов.
	ErrChannelGroupEmpty = errors.New("alerting: Mattermost additional channel has no channel_ids configured")

	// ErrChannelGroupEmptyID — в именованной группе есть пустой идентификатор.
	ErrChannelGroupEmptyID = errors.New("alerting: Mattermost additional channel has empty channel_id")

	// ErrRecipientsRequired — email канал включён без получателей.
	ErrRecipientsRequired = errors.New("alerting: Email recipients are required when email notifications are enabled")

	// ErrEmailAddressInvalid — адрес получателя или отправителя не прошёл проверку.
	ErrEmailAddressInvalid = errors.New("alerting: Invalid email address")

	// ErrSMTPHostRequired — SMTP host не указан.
	ErrSMTPHostRequired = errors.New("alerting: smtp_host is required when email channel is enabled")

	// ErrFromRequired — адрес отправителя не указан.
	ErrFromRequired = errors.New("alerting: from address is required when email channel is enabled")
)

// Ошибки доставки.
var (
	// ErrUploadNoFileIDs — сервер принял файл, но не вернул ни одного file_id.
	ErrUploadNoFileIDs = errors.New("alerting: file upload returned no file_infos")

	// ErrSMTPSend — ошибка отправки email.
	ErrSMTPSend = errors.New("alerting: failed to send email")
)

// addressError привязывает ошибку адреса к самому адресу.
func addressError(address string) error {
	return fmt.Errorf("%w: %s", ErrEmailAddressInvalid, address)
}

// HTTPError — ответ сервера с не-2xx статусом (не сетевая ошибка).
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}
