package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Kargones/logmonitor/internal/constants"
	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/urlutil"

	"github.com/cenkalti/backoff/v5"
)

// Пути Mattermost API v4.
const (
	postsPath = "/api/v4/posts"
	filesPath = "/api/v4/files"
)

// maxResponseBodySize — максимальный размер тела ответа, читаемого для диагностики (1 KB).
const maxResponseBodySize = 1024

// maxSuccessBodySize — максимальный размер успешного ответа API (1 MB).
const maxSuccessBodySize = 1 << 20

// HTTPClient определяет интерфейс HTTP клиента для тестирования.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Post — тело запроса POST /api/v4/posts.
type Post struct {
	ChannelID string        `json:"channel_id"`
	Message   string        `json:"message"`
	Metadata  *PostMetadata `json:"metadata,omitempty"`
	FileIDs   []string      `json:"file_ids,omitempty"`
}

// PostMetadata — метаданные поста. Используется только приоритет.
type PostMetadata struct {
	Priority PostPriority `json:"priority"`
}

// PostPriority — вложенный объект приоритета.
type PostPriority struct {
	Priority Priority `json:"priority"`
}

// NewPost создаёт пост для канала. Метаданные добавляются только
// для допустимого приоритета.
func NewPost(channelID, message string, priority Priority) Post {
	p := Post{ChannelID: channelID, Message: message}
	if priority.Valid() {
		p.Metadata = &PostMetadata{Priority: PostPriority{Priority: priority}}
	}
	return p
}

// PostResponse — значимая часть ответа сервера на создание поста.
type PostResponse struct {
	ID         string `json:"id"`
	ChannelID  string `json:"channel_id"`
	StatusCode int    `json:"-"`
}

// fileUploadResponse — ответ POST /api/v4/files.
type fileUploadResponse struct {
	FileInfos []struct {
		ID string `json:"id"`
	} `json:"file_infos"`
}

// MattermostClient отправляет посты и файлы в Mattermost.
// Каждая попытка ограничена своим таймаутом, попытки повторяются
// с фиксированной паузой до исчерпания RetryTimes.
type MattermostClient struct {
	config     MattermostConfig
	baseURL    string
	logger     logging.Logger
	httpClient HTTPClient
}

// NewMattermostClient создаёт клиент. Нулевые числовые настройки
// заменяются значениями по умолчанию.
func NewMattermostClient(config MattermostConfig, logger logging.Logger) *MattermostClient {
	config = config.withDefaults()
	return &MattermostClient{
		config:     config,
		baseURL:    strings.TrimRight(config.URL, "/"),
		logger:     logger,
		httpClient: &http.Client{},
	}
}

// SetHTTPClient устанавливает кастомный HTTPClient (для тестирования).
func (c *MattermostClient) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

// Config возвращает нормализованную конфигурацию клиента.
func (c *MattermostClient) Config() MattermostConfig {
	return c.config
}

// CreatePost создаёт пост как есть, без проверки длины.
func (c *MattermostClient) CreatePost(ctx context.Context, post Post) (*PostResponse, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post: %w", err)
	}

	return retry(ctx, c, "create_post", func() (*PostResponse, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		req, err := c.newRequest(attemptCtx, postsPath, "application/json", body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		respBody, status, err := c.do(req)
		if err != nil {
			return nil, err
		}

		out := &PostResponse{StatusCode: status}
		// Тело ответа носит справочный характер: пост уже создан.
		_ = json.Unmarshal(respBody, out) //nolint:errcheck // best-effort
		return out, nil
	})
}

// UploadFile загружает содержимое файлом в канал и возвращает file_id.
// Ответ без file_infos считается ошибкой и не повторяется.
func (c *MattermostClient) UploadFile(ctx context.Context, channelID, filename string, content []byte) ([]string, error) {
	body, contentType, err := multipartBody(channelID, filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	return retry(ctx, c, "upload_file", func() ([]string, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, c.config.FileUploadTimeout)
		defer cancel()

		req, err := c.newRequest(attemptCtx, filesPath, contentType, body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		respBody, _, err := c.do(req)
		if err != nil {
			return nil, err
		}

		var resp fileUploadResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode upload response: %w", err))
		}
		ids := make([]string, 0, len(resp.FileInfos))
		for _, fi := range resp.FileInfos {
			if fi.ID != "" {
				ids = append(ids, fi.ID)
			}
		}
		if len(ids) == 0 {
			return nil, backoff.Permanent(ErrUploadNoFileIDs)
		}
		return ids, nil
	})
}

// retry выполняет op не более RetryTimes раз с постоянной паузой RetryDelay.
func retry[T any](ctx context.Context, c *MattermostClient, op string, fn func() (T, error)) (T, error) {
	attempt := 0
	result, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		return fn()
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(c.config.RetryDelay)),
		backoff.WithMaxTries(uint(c.config.RetryTimes)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Debug("mattermost retry",
				"operation", op,
				"attempt", attempt,
				"max_attempts", c.config.RetryTimes,
				"next_in", next.String(),
				"error", err.Error(),
				"url", urlutil.MaskURL(c.baseURL),
			)
		}),
	)
	if err != nil {
		return result, fmt.Errorf("%s failed after %d attempt(s): %w", op, attempt, err)
	}
	return result, nil
}

// newRequest собирает авторизованный POST запрос к API.
func (c *MattermostClient) newRequest(ctx context.Context, path, contentType string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("User-Agent", constants.UserAgent)
	return req, nil
}

// do выполняет запрос. Не-2xx ответ возвращается как *HTTPError.
func (c *MattermostClient) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxSuccessBodySize))
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
		}
		return body, resp.StatusCode, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	return nil, resp.StatusCode, &HTTPError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

// multipartBody собирает тело загрузки: поле channel_id и файл в поле files.
func multipartBody(channelID, filename string, content []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("channel_id", channelID); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile("files", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// StatusCode извлекает HTTP статус из ошибки доставки (0 для сетевых ошибок).
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
