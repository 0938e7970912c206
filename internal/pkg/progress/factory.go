package progress

import (
	"os"
	"strings"
	"time"

	"github.com/Kargones/logmonitor/internal/constants"
)

// Интервалы по умолчанию.
const (
	DefaultThrottleInterval = 200 * time.Millisecond
	DefaultReportInterval   = 30 * time.Second
)

// EnvShowProgress — LOG_MONITOR_SHOW_PROGRESS=false отключает индикатор.
const EnvShowProgress = "LOG_MONITOR_SHOW_PROGRESS"

// New выбирает реализацию:
//  1. LOG_MONITOR_SHOW_PROGRESS=false или JSON вывод → NoopProgress;
//  2. Output — терминал → SpinnerProgress;
//  3. иначе → LogProgress при наличии Logger, NoopProgress без него.
func New(opts Options) Progress {
	if opts.ThrottleInterval == 0 {
		opts.ThrottleInterval = DefaultThrottleInterval
	}
	if opts.ReportInterval == 0 {
		opts.ReportInterval = DefaultReportInterval
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	if strings.EqualFold(os.Getenv(EnvShowProgress), "false") ||
		strings.EqualFold(os.Getenv(constants.EnvOutputFormat), "json") {
		return NewNoOp()
	}
	if IsTTY(opts.Output) {
		return NewSpinnerProgress(opts)
	}
	if opts.Logger != nil {
		return NewLogProgress(opts)
	}
	return NewNoOp()
}
