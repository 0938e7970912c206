package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Kargones/logmonitor/internal/di"
	"github.com/Kargones/logmonitor/internal/logmonitor"
	"github.com/Kargones/logmonitor/internal/pkg/apperrors"
	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/output"
	"github.com/Kargones/logmonitor/internal/pkg/progress"

	"github.com/spf13/cobra"
)

// defaultMaxLineBytes — предел длины одной NDJSON записи.
const defaultMaxLineBytes = 1 << 20

// initialLineBuffer — начальный размер буфера сканера.
const initialLineBuffer = 64 * 1024

// runStats — итог команды run.
type runStats struct {
	Records      int            `json:"records"`
	DecodeErrors int            `json:"decode_errors"`
	Processed    int            `json:"processed"`
	Dropped      map[string]int `json:"dropped,omitempty"`
	Deliveries   int            `json:"deliveries"`
	Failed       int            `json:"failed"`
	EmailsSent   int            `json:"emails_sent"`
}

func (s *runStats) add(report logmonitor.Report) {
	if !report.Processed {
		if s.Dropped == nil {
			s.Dropped = make(map[string]int)
		}
		s.Dropped[report.DropReason]++
		return
	}
	s.Processed++
	s.Deliveries += len(report.Outcomes)
	s.Failed += report.Failed()
	if report.EmailSent {
		s.EmailsSent++
	}
}

func (c *cli) runCmd() *cobra.Command {
	maxLineBytes := defaultMaxLineBytes
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read NDJSON log records from stdin and route them",
		Long: `run читает записи журнала из stdin, по одной JSON записи на строку:

  {"level":"error","message":"...","context":{...},"time":"2026-03-14T09:26:53Z"}

Каждая запись проходит через маршрутизатор. Нераспознанные строки
пропускаются с предупреждением. При metrics.listenAddr поднимается
HTTP сервер /metrics, при завершении метрики отправляются в Pushgateway.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runMonitor(cmd.Context(), maxLineBytes)
		},
	}
	cmd.Flags().IntVar(&maxLineBytes, "max-line-bytes", defaultMaxLineBytes, "Maximum size of one input record")
	return cmd
}

func (c *cli) runMonitor(ctx context.Context, maxLineBytes int) error {
	const command = "run"
	start := time.Now()

	app, err := c.bootstrap()
	if err != nil {
		return c.bootstrapFailure(command, err, start)
	}
	defer c.shutdown(app)

	logger := app.Logger.With("trace_id", app.TraceID, "command", command)
	stopServer := serveMetrics(app, logger)
	defer stopServer()

	logger.Info("чтение записей журнала из stdin", "monitor_enabled", app.Router.Enabled())
	prog := progress.New(progress.Options{Output: c.stderr, Logger: logger})
	stats, err := consume(ctx, c.stdin, app.Router, logger, prog, maxLineBytes)
	if err != nil {
		return c.fail(app, command, err, apperrors.ErrInputDecode, start, stats)
	}

	result := output.NewResult(command, stats, app.TraceID, start)
	result.Summary = runSummary(stats)
	return c.succeed(app, result)
}

// consume читает NDJSON поток до EOF или отмены ctx.
func consume(
	ctx context.Context,
	r io.Reader,
	router *logmonitor.Router,
	logger logging.Logger,
	prog progress.Progress,
	maxLineBytes int,
) (runStats, error) {
	var stats runStats

	prog.Start("записей журнала")
	defer prog.Finish()

	if maxLineBytes <= 0 {
		maxLineBytes = defaultMaxLineBytes
	}
	// Сканер считает пределом большее из max и ёмкости буфера.
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(initialLineBuffer, maxLineBytes)), maxLineBytes)

	line := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			logger.Warn("чтение прервано сигналом", "line", line)
			break
		}
		line++

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var event logmonitor.LogEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			stats.DecodeErrors++
			logger.Warn("не удалось разобрать запись журнала", "line", line, "error", err.Error())
			continue
		}
		stats.Records++
		stats.add(router.Handle(ctx, event))
		prog.Update(int64(stats.Records), "")
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return stats, apperrors.NewAppError(apperrors.ErrInputDecode,
				fmt.Sprintf("запись %d длиннее %d байт", line+1, maxLineBytes), err)
		}
		return stats, apperrors.NewAppError(apperrors.ErrInputDecode, "ошибка чтения stdin", err)
	}
	return stats, nil
}

func runSummary(stats runStats) *output.SummaryInfo {
	summary := output.NewSummaryInfo()
	summary.AddMetric("Записей", strconv.Itoa(stats.Records), "")
	summary.AddMetric("Уведомлено", strconv.Itoa(stats.Processed), "")
	summary.AddMetric("Доставок", strconv.Itoa(stats.Deliveries), "")
	if stats.EmailsSent > 0 {
		summary.AddMetric("Email рассылок", strconv.Itoa(stats.EmailsSent), "")
	}
	if stats.DecodeErrors > 0 {
		summary.AddWarning(fmt.Sprintf("пропущено нераспознанных строк: %d", stats.DecodeErrors))
	}
	if stats.Failed > 0 {
		summary.AddWarning(fmt.Sprintf("неуспешных доставок: %d", stats.Failed))
	}
	return summary
}

// serveMetrics поднимает HTTP сервер /metrics, если он настроен.
// Возвращает функцию остановки.
func serveMetrics(app *di.App, logger logging.Logger) func() {
	addr := app.Config.Metrics.ListenAddr
	if !app.Config.Metrics.Enabled || addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.MetricsCollector.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("сервер метрик остановлен с ошибкой", "addr", addr, "error", err.Error())
		}
	}()
	logger.Info("сервер метрик запущен", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("ошибка остановки сервера метрик", "error", err.Error())
		}
	}
}
