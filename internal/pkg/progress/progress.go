// Package progress показывает ход потоковой обработки: spinner со счётчиком
// в терминале или периодические записи в лог в CI и при перенаправлении.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/logging"
)

// Progress отображает ход обработки потока с неизвестной длиной.
type Progress interface {
	// Start начинает отображение с начальным сообщением.
	Start(message string)
	// Update сообщает текущее число обработанных единиц.
	Update(current int64, message string)
	// Finish завершает отображение итогом.
	Finish()
}

// Options конфигурирует Progress.
type Options struct {
	// Output — куда рисовать spinner (обычно os.Stderr).
	Output io.Writer
	// Logger — куда писать периодические записи вне терминала.
	Logger logging.Logger
	// ThrottleInterval — минимальный интервал между перерисовками.
	ThrottleInterval time.Duration
	// ReportInterval — интервал записей в лог вне терминала.
	ReportInterval time.Duration
}

// IsTTY проверяет, является ли writer терминалом.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// FormatDuration форматирует duration: "45s", "5m 30s", "1h 7m 30s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		return "0s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		switch {
		case minutes == 0 && seconds == 0:
			return fmt.Sprintf("%dh", hours)
		case seconds == 0:
			return fmt.Sprintf("%dh %dm", hours, minutes)
		case minutes == 0:
			return fmt.Sprintf("%dh %ds", hours, seconds)
		}
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
