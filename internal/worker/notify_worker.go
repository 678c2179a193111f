package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"strike/internal/amqp"
)

// ReminderConsumer is what the worker needs from the AMQP client.
type ReminderConsumer interface {
	ConsumePaymentReminders(ctx context.Context, handler func(*amqp.PaymentReminderMessage) error) error
}

// Notifier delivers a rendered reminder to a client. Implementations send
// SMS, email, or just log.
type Notifier interface {
	Notify(ctx context.Context, clientID, text string) error
}

// LogNotifier writes notifications to the structured log. The default
// until a real SMS/email sender is wired in.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, clientID, text string) error {
	slog.InfoContext(ctx, "Reminder notification",
		"client_id", clientID,
		"text", text)
	return nil
}

// NotifyWorker consumes payment reminder messages and hands rendered
// notifications to a Notifier. Each client is notified at most once per
// expiration date, so redelivered or re-published reminders are dropped.
type NotifyWorker struct {
	consumer ReminderConsumer
	notifier Notifier

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewNotifyWorker(consumer ReminderConsumer, notifier Notifier) *NotifyWorker {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &NotifyWorker{
		consumer: consumer,
		notifier: notifier,
		seen:     make(map[string]struct{}),
	}
}

// Run consumes reminders until the context is cancelled.
func (w *NotifyWorker) Run(ctx context.Context) error {
	return w.consumer.ConsumePaymentReminders(ctx, func(msg *amqp.PaymentReminderMessage) error {
		return w.Handle(ctx, msg)
	})
}

// Handle processes a single reminder message.
func (w *NotifyWorker) Handle(ctx context.Context, msg *amqp.PaymentReminderMessage) error {
	if msg.ClientID == "" {
		return fmt.Errorf("reminder without client id")
	}

	key := msg.ClientID + "|" + msg.ExpirationDate
	w.mu.Lock()
	if _, dup := w.seen[key]; dup {
		w.mu.Unlock()
		slog.DebugContext(ctx, "Duplicate reminder dropped",
			"client_id", msg.ClientID,
			"expiration_date", msg.ExpirationDate)
		return nil
	}
	w.seen[key] = struct{}{}
	w.mu.Unlock()

	text, err := RenderNotification(msg)
	if err != nil {
		// Undo the dedup mark so a corrected redelivery can go through.
		w.mu.Lock()
		delete(w.seen, key)
		w.mu.Unlock()
		return err
	}

	if err := w.notifier.Notify(ctx, msg.ClientID, text); err != nil {
		w.mu.Lock()
		delete(w.seen, key)
		w.mu.Unlock()
		return fmt.Errorf("notify client %s: %w", msg.ClientID, err)
	}
	return nil
}

// RenderNotification formats the reminder text sent to a client.
func RenderNotification(msg *amqp.PaymentReminderMessage) (string, error) {
	name := strings.TrimSpace(msg.ClientName)
	if name == "" {
		name = "Cliente"
	}

	switch msg.Status {
	case "overdue":
		return fmt.Sprintf("%s: seu pagamento venceu em %s.", name, msg.ExpirationDate), nil
	case "dueSoon":
		if msg.DaysRemaining == 0 {
			return fmt.Sprintf("%s: seu pagamento vence hoje (%s).", name, msg.ExpirationDate), nil
		}
		return fmt.Sprintf("%s: seu pagamento vence em %d dia(s), no dia %s.", name, msg.DaysRemaining, msg.ExpirationDate), nil
	default:
		return "", fmt.Errorf("unexpected reminder status %q", msg.Status)
	}
}
