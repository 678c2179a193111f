package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"strike/internal/amqp"
	"strike/internal/core"
)

// ReminderPublisher is what the processor needs from the AMQP client.
type ReminderPublisher interface {
	PublishPaymentReminder(ctx context.Context, msg *amqp.PaymentReminderMessage) error
}

// ReminderProcessor scans the aggregated view and publishes one reminder
// per client whose current payment is due soon or overdue.
type ReminderProcessor struct {
	snapshots *SnapshotService
	publisher ReminderPublisher
}

func NewReminderProcessor(snapshots *SnapshotService, publisher ReminderPublisher) *ReminderProcessor {
	return &ReminderProcessor{
		snapshots: snapshots,
		publisher: publisher,
	}
}

// ProcessDueReminders takes a fresh snapshot and publishes reminders.
// Publish failures are logged per client and do not stop the scan.
// Returns the number of reminders published.
func (p *ReminderProcessor) ProcessDueReminders(ctx context.Context, now time.Time) (int, error) {
	if p.snapshots == nil || p.publisher == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	snap, err := p.snapshots.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("take snapshot: %w", err)
	}

	today := core.DateOf(now)
	published := 0
	for _, client := range snap.Clients {
		status := client.Status(today)
		if status != core.StatusOverdue && status != core.StatusDueSoon {
			continue
		}

		current, _ := client.CurrentPayment()
		days := core.DaysRemaining(current.ExpirationDate, today)
		msg := amqp.NewPaymentReminderMessage(
			client.ID,
			client.Name,
			string(status),
			current.ExpirationDate.String(),
			days,
		)

		if err := p.publisher.PublishPaymentReminder(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"client_id", client.ID,
				"status", status,
				"error", err)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Reminder scan complete",
		"published", published,
		"clients_checked", len(snap.Clients),
		"faults", len(snap.Faults))

	return published, nil
}
