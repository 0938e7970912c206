package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// summaryDivider отделяет блок сводки.
const summaryDivider = "══════════════════════════════════════════════════════"

// TextWriter форматирует Result в человекочитаемый текст.
type TextWriter struct{}

// NewTextWriter создаёт новый TextWriter.
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

// Write форматирует result в текст и записывает в w.
// Для ошибок блок сводки не выводится.
func (t *TextWriter) Write(w io.Writer, result *Result) error {
	if result == nil {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%s: %s\n", result.Command, result.Status); err != nil {
		return err
	}

	if result.Error != nil {
		if _, err := fmt.Fprintf(w, "Error [%s]: %s\n", result.Error.Code, result.Error.Message); err != nil {
			return err
		}
	}

	// Data выводится как JSON.
	if result.Data != nil {
		dataJSON, err := json.MarshalIndent(result.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("не удалось сериализовать Data: %w", err)
		}
		if _, err := fmt.Fprintf(w, "Data: %s\n", dataJSON); err != nil {
			return err
		}
	}

	if result.Status != StatusError {
		if err := t.writeSummary(w, result); err != nil {
			return err
		}
	}

	return nil
}

// writeSummary выводит блок сводки: длительность, метрики, предупреждения.
func (t *TextWriter) writeSummary(w io.Writer, result *Result) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", summaryDivider); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "📊 Сводка\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", summaryDivider); err != nil {
		return err
	}

	if result.Metadata != nil && result.Metadata.DurationMs > 0 {
		if _, err := fmt.Fprintf(w, "⏱️  Время выполнения: %s\n", formatDuration(result.Metadata.DurationMs)); err != nil {
			return err
		}
	}

	if result.Summary != nil && len(result.Summary.KeyMetrics) > 0 {
		for _, m := range result.Summary.KeyMetrics {
			if m.Unit != "" {
				if _, err := fmt.Fprintf(w, "📈 %s: %s %s\n", m.Name, m.Value, m.Unit); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w, "📈 %s: %s\n", m.Name, m.Value); err != nil {
					return err
				}
			}
		}
	}

	if result.Summary != nil && result.Summary.WarningsCount > 0 {
		if _, err := fmt.Fprintf(w, "\n⚠️  Предупреждений: %d\n", result.Summary.WarningsCount); err != nil {
			return err
		}
		for _, warn := range result.Summary.Warnings {
			if _, err := fmt.Fprintf(w, "   • %s\n", warn); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "%s\n", summaryDivider); err != nil {
		return err
	}

	return nil
}

// formatDuration форматирует миллисекунды: "150мс", "2.5с", "1м 5с".
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dмс", ms)
	}
	sec := ms / 1000
	if sec < 60 {
		secFloat := float64(ms) / 1000
		return fmt.Sprintf("%.1fс", secFloat)
	}
	min := sec / 60
	secRem := sec % 60
	return fmt.Sprintf("%dм %dс", min, secRem)
}
