package progress

import (
	"fmt"
	"time"
)

var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// SpinnerProgress рисует spinner со счётчиком в одной строке терминала.
type SpinnerProgress struct {
	opts       Options
	startTime  time.Time
	message    string
	current    int64
	frameIndex int
	lastDraw   time.Time
}

// NewSpinnerProgress создаёт SpinnerProgress.
func NewSpinnerProgress(opts Options) *SpinnerProgress {
	return &SpinnerProgress{opts: opts}
}

// Start рисует первый кадр.
func (p *SpinnerProgress) Start(message string) {
	p.startTime = time.Now()
	p.message = message
	p.frameIndex = 0
	p.lastDraw = time.Now()
	p.draw()
}

// Update перерисовывает строку не чаще ThrottleInterval.
func (p *SpinnerProgress) Update(current int64, message string) {
	p.current = current
	if message != "" {
		p.message = message
	}
	if time.Since(p.lastDraw) < p.opts.ThrottleInterval {
		return
	}
	p.lastDraw = time.Now()
	p.frameIndex = (p.frameIndex + 1) % len(spinnerFrames)
	p.draw()
}

// Finish заменяет spinner итоговой строкой.
func (p *SpinnerProgress) Finish() {
	elapsed := FormatDuration(time.Since(p.startTime))
	_, _ = fmt.Fprintf(p.opts.Output, "\r✓ %s: %d (за %s)\033[K\n", p.message, p.current, elapsed) //nolint:errcheck // terminal output
}

func (p *SpinnerProgress) draw() {
	elapsed := FormatDuration(time.Since(p.startTime))
	_, _ = fmt.Fprintf(p.opts.Output, "\r%c %s: %d (время: %s)\033[K", spinnerFrames[p.frameIndex], p.message, p.current, elapsed) //nolint:errcheck // terminal output
}
