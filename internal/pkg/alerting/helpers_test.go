package alerting

import (
	"sync"

	"github.com/Kargones/logmonitor/internal/pkg/logging"
)

// testLogger запоминает сообщения по уровням. Безопасен для конкурентных тестов.
type testLogger struct {
	mu        sync.Mutex
	debugMsgs []string
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
	args      [][]any
}

func (l *testLogger) record(dst *[]string, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, msg)
	l.args = append(l.args, args)
}

func (l *testLogger) Debug(msg string, args ...any) { l.record(&l.debugMsgs, msg, args) }
func (l *testLogger) Info(msg string, args ...any)  { l.record(&l.infoMsgs, msg, args) }
func (l *testLogger) Warn(msg string, args ...any)  { l.record(&l.warnMsgs, msg, args) }
func (l *testLogger) Error(msg string, args ...any) { l.record(&l.errorMsgs, msg, args) }
func (l *testLogger) With(_ ...any) logging.Logger  { return l }

func (l *testLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warnMsgs...)
}
