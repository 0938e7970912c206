package logmonitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kargones/logmonitor/internal/pkg/alerting"
	"github.com/Kargones/logmonitor/internal/pkg/logging"
	"github.com/Kargones/logmonitor/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ChatSender доставляет пост в один канал, включая повторы и обработку
// слишком длинных сообщений, и возвращает пост в отправленном виде.
// Реализуется *alerting.MattermostClient.
type ChatSender interface {
	SendPost(ctx context.Context, post alerting.Post) (alerting.Post, *alerting.PostResponse, error)
}

// MailSender доставляет одно письмо одному получателю.
// Реализуется *alerting.EmailSender.
type MailSender interface {
	Send(ctx context.Context, recipient string, n alerting.EmailNotification) error
}

// Dispatcher выполняет доставку в конкретные адреса и сопровождает
// каждую попытку сигналами Sending, затем Sent или Failed.
type Dispatcher struct {
	chat   ChatSender
	mail   MailSender
	bus    *Bus
	logger logging.Logger
	tracer trace.Tracer
}

// NewDispatcher создаёт Dispatcher. chat или mail могут быть nil,
// если соответствующий канал выключен.
func NewDispatcher(chat ChatSender, mail MailSender, bus *Bus, logger logging.Logger, tracer trace.Tracer) *Dispatcher {
	return &Dispatcher{chat: chat, mail: mail, bus: bus, logger: logger, tracer: tracer}
}

// SendToChannel доставляет пост в один канал Mattermost. Сигнал Sending
// несёт собранный пост, Sent и Failed несут пост в отправленном виде.
func (d *Dispatcher) SendToChannel(ctx context.Context, event LogEvent, target, body string, priority alerting.Priority) DeliveryOutcome {
	post := alerting.NewPost(target, body, priority)

	ctx, span := d.tracer.Start(ctx, "logmonitor.dispatch",
		trace.WithAttributes(
			attribute.String("channel", alerting.ChannelMattermost),
			attribute.String("target", target),
		))
	defer span.End()

	d.publish(ctx, Signal{Kind: SignalSending, Channel: alerting.ChannelMattermost, Target: target, Event: event, Payload: post})

	start := time.Now()
	delivered, resp, err := d.chat.SendPost(ctx, post)
	outcome := DeliveryOutcome{
		Channel:  alerting.ChannelMattermost,
		Target:   target,
		Duration: time.Since(start),
	}

	if err != nil {
		outcome.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		d.logger.Error("не удалось отправить уведомление в Mattermost",
			"channel_id", target,
			"status_code", alerting.StatusCode(err),
			"error", err.Error(),
			"trace_id", tracing.TraceIDFromContext(ctx),
		)
		d.publish(ctx, Signal{Kind: SignalFailed, Channel: alerting.ChannelMattermost, Target: target, Event: event, Payload: delivered, Err: err, Duration: outcome.Duration})
		return outcome
	}

	outcome.Succeeded = true
	outcome.Response = resp
	d.publish(ctx, Signal{Kind: SignalSent, Channel: alerting.ChannelMattermost, Target: target, Event: event, Payload: delivered, Response: resp, Duration: outcome.Duration})
	return outcome
}

// SendToChannels доставляет пост во все каналы параллельно и ждёт
// завершения всех. Ошибка одного канала не прерывает остальные.
// Порядок результатов совпадает с порядком targets.
func (d *Dispatcher) SendToChannels(ctx context.Context, event LogEvent, targets []string, body string, priority alerting.Priority) []DeliveryOutcome {
	outcomes := make([]DeliveryOutcome, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					d.logger.Error("паника при отправке в Mattermost", "channel_id", target, "error", err.Error())
					outcomes[i] = DeliveryOutcome{Channel: alerting.ChannelMattermost, Target: target, Err: err}
				}
			}()
			outcomes[i] = d.SendToChannel(ctx, event, target, body, priority)
		}()
	}
	wg.Wait()
	return outcomes
}

// emailPayload — данные сигнала Sending для email.
type emailPayload struct {
	Recipient string                     `json:"recipient"`
	Data      alerting.EmailNotification `json:"data"`
}

// emailResponse — данные сигнала Sent для email.
type emailResponse struct {
	Recipient string `json:"recipient"`
}

// SendEmail отправляет письмо одному получателю.
func (d *Dispatcher) SendEmail(ctx context.Context, event LogEvent, recipient string, n alerting.EmailNotification) DeliveryOutcome {
	ctx, span := d.tracer.Start(ctx, "logmonitor.dispatch",
		trace.WithAttributes(
			attribute.String("channel", alerting.ChannelEmail),
		))
	defer span.End()

	payload := emailPayload{Recipient: recipient, Data: n}
	d.publish(ctx, Signal{Kind: SignalSending, Channel: alerting.ChannelEmail, Target: recipient, Event: event, Payload: payload})

	start := time.Now()
	err := d.mail.Send(ctx, recipient, n)
	outcome := DeliveryOutcome{
		Channel:  alerting.ChannelEmail,
		Target:   recipient,
		Duration: time.Since(start),
	}

	if err != nil {
		outcome.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		d.logger.Error("не удалось отправить email уведомление",
			"recipient", recipient,
			"error", err.Error(),
			"trace_id", tracing.TraceIDFromContext(ctx),
		)
		d.publish(ctx, Signal{Kind: SignalFailed, Channel: alerting.ChannelEmail, Target: recipient, Event: event, Payload: payload, Err: err, Duration: outcome.Duration})
		return outcome
	}

	outcome.Succeeded = true
	outcome.Response = emailResponse{Recipient: recipient}
	d.publish(ctx, Signal{Kind: SignalSent, Channel: alerting.ChannelEmail, Target: recipient, Event: event, Payload: payload, Response: outcome.Response, Duration: outcome.Duration})
	return outcome
}

// SendEmails отправляет письмо каждому получателю по очереди.
// Ошибка одного получателя не мешает остальным.
func (d *Dispatcher) SendEmails(ctx context.Context, event LogEvent, recipients []string, n alerting.EmailNotification) []DeliveryOutcome {
	outcomes := make([]DeliveryOutcome, 0, len(recipients))
	for _, r := range recipients {
		outcomes = append(outcomes, d.SendEmail(ctx, event, r, n))
	}
	return outcomes
}

func (d *Dispatcher) publish(ctx context.Context, s Signal) {
	if d.bus == nil {
		return
	}
	s.TraceID = tracing.TraceIDFromContext(ctx)
	d.bus.Publish(ctx, s)
}
