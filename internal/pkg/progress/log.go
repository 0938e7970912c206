package progress

import "time"

// LogProgress пишет в лог число обработанных единиц не чаще ReportInterval.
// Используется в CI и при перенаправлении stderr в файл.
type LogProgress struct {
	opts       Options
	startTime  time.Time
	lastReport time.Time
	message    string
	current    int64
}

// NewLogProgress создаёт LogProgress. opts.Logger обязателен.
func NewLogProgress(opts Options) *LogProgress {
	return &LogProgress{opts: opts}
}

// Start пишет запись о начале.
func (p *LogProgress) Start(message string) {
	p.startTime = time.Now()
	p.lastReport = p.startTime
	p.message = message
	p.opts.Logger.Info("обработка начата", "message", message)
}

// Update пишет запись, если с прошлой прошло не меньше ReportInterval.
func (p *LogProgress) Update(current int64, message string) {
	p.current = current
	if message != "" {
		p.message = message
	}
	if time.Since(p.lastReport) < p.opts.ReportInterval {
		return
	}
	p.lastReport = time.Now()
	p.opts.Logger.Info("ход обработки",
		"message", p.message,
		"processed", current,
		"elapsed", FormatDuration(time.Since(p.startTime)),
	)
}

// Finish пишет итоговую запись.
func (p *LogProgress) Finish() {
	p.opts.Logger.Info("обработка завершена",
		"message", p.message,
		"processed", p.current,
		"duration", FormatDuration(time.Since(p.startTime)),
	)
}
