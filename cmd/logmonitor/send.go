package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Kargones/logmonitor/internal/di"
	"github.com/Kargones/logmonitor/internal/logmonitor"
	"github.com/Kargones/logmonitor/internal/pkg/apperrors"
	"github.com/Kargones/logmonitor/internal/pkg/output"

	"github.com/spf13/cobra"
)

// sendOptions — флаги команды send.
type sendOptions struct {
	level    string
	message  string
	context  string
	channels []string
	priority string
	alert    bool
	viaHook  bool
}

// deliveryView — результат одной доставки в выводе send.
type deliveryView struct {
	Channel    string `json:"channel"`
	Target     string `json:"target"`
	Succeeded  bool   `json:"succeeded"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// sendData — данные результата send.
type sendData struct {
	logmonitor.Report
	Deliveries []deliveryView `json:"deliveries,omitempty"`
}

func (c *cli) sendCmd() *cobra.Command {
	opts := sendOptions{}
	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Route one synthetic log event",
		Long: `send формирует одно событие и проводит его через маршрутизатор
так же, как запись из run. Удобно для проверки каналов и групп.

  logmonitor send "оплата не прошла" --context '{"order_id":42}' --channel payments`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.message = args[0]
			}
			return c.send(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.level, "level", "l", logmonitor.LevelError, "Event level")
	flags.StringVarP(&opts.message, "message", "m", "", "Event message")
	flags.StringVar(&opts.context, "context", "", "Event context as a JSON object")
	flags.StringSliceVar(&opts.channels, "channel", nil, "Channel or group name (repeatable)")
	flags.StringVar(&opts.priority, "priority", "", "Post priority: important, urgent")
	flags.BoolVar(&opts.alert, "alert", false, "Notify regardless of level")
	flags.BoolVar(&opts.viaHook, "via-hook", false, "Log the event through the slog hook instead of calling the router")
	return cmd
}

func (c *cli) send(ctx context.Context, opts sendOptions) error {
	const command = "send"
	start := time.Now()

	event, err := opts.event()
	if err != nil {
		return c.fail(nil, command, err, apperrors.ErrInputDecode, start, nil)
	}

	app, err := c.bootstrap()
	if err != nil {
		return c.bootstrapFailure(command, err, start)
	}
	defer c.shutdown(app)

	if opts.viaHook {
		logThroughHook(ctx, app, event)
		app.Hook.Wait()
		result := output.NewResult(command, map[string]string{"via": "slog"}, app.TraceID, start)
		return c.succeed(app, result)
	}

	report := app.Router.Handle(ctx, event)
	data := newSendData(report)

	if failed := report.Failed(); failed > 0 {
		err := apperrors.NewAppError(apperrors.ErrDeliveryFailed,
			fmt.Sprintf("не доставлено %d из %d", failed, len(report.Outcomes)), nil)
		return c.fail(app, command, err, apperrors.ErrDeliveryFailed, start, data)
	}

	result := output.NewResult(command, data, app.TraceID, start)
	result.Summary = sendSummary(report)
	return c.succeed(app, result)
}

// event собирает событие из флагов. Флаги маршрутизации кладутся в
// context["llm"] поверх значения из --context.
func (o sendOptions) event() (logmonitor.LogEvent, error) {
	if strings.TrimSpace(o.message) == "" {
		return logmonitor.LogEvent{}, apperrors.NewAppError(apperrors.ErrInputDecode, "сообщение не указано", nil)
	}

	ctxMap := map[string]any{}
	if o.context != "" {
		if err := json.Unmarshal([]byte(o.context), &ctxMap); err != nil {
			return logmonitor.LogEvent{}, apperrors.NewAppError(apperrors.ErrInputDecode,
				"--context должен быть JSON объектом", err)
		}
	}

	routing := map[string]any{}
	if o.alert {
		routing["alert"] = true
	}
	if o.priority != "" {
		routing["priority"] = o.priority
	}
	switch len(o.channels) {
	case 0:
	case 1:
		routing["channel"] = o.channels[0]
	default:
		names := make([]any, len(o.channels))
		for i, ch := range o.channels {
			names[i] = ch
		}
		routing["channel"] = names
	}
	if len(routing) > 0 {
		ctxMap[logmonitor.MetadataKey] = routing
	}
	if len(ctxMap) == 0 {
		ctxMap = nil
	}

	return logmonitor.LogEvent{
		Level:   o.level,
		Message: o.message,
		Context: ctxMap,
		Time:    time.Now(),
	}, nil
}

// logThroughHook пишет событие в slog.Logger поверх Hook, как это
// сделал бы хост-процесс.
func logThroughHook(ctx context.Context, app *di.App, event logmonitor.LogEvent) {
	keys := make([]string, 0, len(event.Context))
	for k := range event.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, event.Context[k]))
	}
	slog.New(app.Hook).LogAttrs(ctx, slogLevel(event.Level), event.Message, attrs...)
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "notice":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func newSendData(report logmonitor.Report) sendData {
	data := sendData{Report: report}
	for _, o := range report.Outcomes {
		view := deliveryView{
			Channel:    o.Channel,
			Target:     o.Target,
			Succeeded:  o.Succeeded,
			DurationMs: o.Duration.Milliseconds(),
		}
		if o.Err != nil {
			view.Error = o.Err.Error()
		}
		data.Deliveries = append(data.Deliveries, view)
	}
	return data
}

func sendSummary(report logmonitor.Report) *output.SummaryInfo {
	summary := output.NewSummaryInfo()
	if !report.Processed {
		summary.AddWarning("событие отфильтровано: " + report.DropReason)
		return summary
	}
	summary.AddMetric("Каналов", strconv.Itoa(len(report.Targets)), "")
	summary.AddMetric("Доставлено", fmt.Sprintf("%d из %d", len(report.Outcomes)-report.Failed(), len(report.Outcomes)), "")
	if report.EmailSent {
		summary.AddMetric("Email", "отправлен", "")
	}
	return summary
}
