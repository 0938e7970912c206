package alerting

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Разметка постов, заменяющих слишком длинное сообщение.
const (
	// TruncatedMarker — метка обрезанного сообщения.
	TruncatedMarker = "**Message truncated**"

	// AttachedMarker — метка поста-сводки с полным текстом во вложении.
	AttachedMarker = "**Full content attached as file**"

	// SummarySeparator отделяет превью от пояснения о вложении.
	SummarySeparator = "\n\n---\n"

	// AttachmentFilename — имя файла с полным текстом.
	AttachmentFilename = "message.md"

	summaryLineLimit    = 5
	summaryPreviewLimit = 500
	ellipsis            = "..."
)

// SendPost доставляет пост с учётом предела длины:
//
//   - длина не больше MaxPostLength: пост уходит как есть;
//   - иначе полный текст загружается файлом, а в канал уходит сводка
//     из первых строк со ссылкой на вложение;
//   - если загрузка не удалась, в канал уходит обрезанный текст с меткой.
//
// Метаданные приоритета исходного поста сохраняются во всех ветках.
// Первым значением возвращается пост в том виде, в каком он ушёл
// в канал (или пытался уйти): исходный, сводка с file_ids или обрезанный.
func (c *MattermostClient) SendPost(ctx context.Context, post Post) (Post, *PostResponse, error) {
	limit := c.config.MaxPostLength
	if utf8.RuneCountInString(post.Message) <= limit {
		resp, err := c.CreatePost(ctx, post)
		return post, resp, err
	}

	fileIDs, err := c.UploadFile(ctx, post.ChannelID, AttachmentFilename, []byte(post.Message))
	if err != nil {
		c.logger.Warn("не удалось загрузить полный текст вложением, сообщение будет обрезано",
			"channel_id", post.ChannelID,
			"length", utf8.RuneCountInString(post.Message),
			"limit", limit,
			"error", err.Error(),
		)
		truncated := post
		truncated.Message = truncateMessage(post.Message, limit)
		resp, err := c.CreatePost(ctx, truncated)
		return truncated, resp, err
	}

	summary := post
	summary.Message = summarizeMessage(post.Message, limit)
	summary.FileIDs = append(append([]string(nil), post.FileIDs...), fileIDs...)
	resp, err := c.CreatePost(ctx, summary)
	return summary, resp, err
}

// truncateMessage обрезает сообщение так, чтобы вместе с меткой оно
// укладывалось в limit символов. Если метка сама длиннее предела,
// остаётся её начало длиной limit.
func truncateMessage(message string, limit int) string {
	suffix := fmt.Sprintf("\n\n… %s (exceeded %d character limit)", TruncatedMarker, limit)
	keep := limit - utf8.RuneCountInString(suffix)
	if keep <= 0 {
		return clipRunes(suffix, limit)
	}
	return clipRunes(message, keep) + suffix
}

// summarizeMessage строит сводку: до пяти первых непустых строк,
// не длиннее 500 символов, затем разделитель и пояснение о вложении.
// При малом limit превью сокращается, а без места под превью
// остаётся начало пояснения длиной limit.
func summarizeMessage(message string, limit int) string {
	lines := make([]string, 0, summaryLineLimit)
	for _, line := range strings.Split(message, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
		if len(lines) == summaryLineLimit {
			break
		}
	}

	footer := fmt.Sprintf("📎 %s (message exceeded %d character limit)", AttachedMarker, limit)
	budget := limit - utf8.RuneCountInString(SummarySeparator) - utf8.RuneCountInString(footer)
	if budget <= len(ellipsis) {
		return clipRunes(footer, limit)
	}

	preview := strings.Join(lines, "\n")
	previewLimit := min(summaryPreviewLimit, budget)
	if runes := []rune(preview); len(runes) > previewLimit {
		preview = string(runes[:previewLimit-len(ellipsis)]) + ellipsis
	}
	return preview + SummarySeparator + footer
}

// clipRunes оставляет не больше n первых символов s.
func clipRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:max(n, 0)])
}
