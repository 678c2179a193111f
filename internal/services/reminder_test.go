package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"strike/internal/amqp"
)

type capturePublisher struct {
	messages []*amqp.PaymentReminderMessage
	failFor  string
}

func (p *capturePublisher) PublishPaymentReminder(_ context.Context, msg *amqp.PaymentReminderMessage) error {
	if p.failFor != "" && msg.ClientID == p.failFor {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

func TestProcessDueReminders(t *testing.T) {
	st := seedStore(t)
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	pub := &capturePublisher{}
	proc := NewReminderProcessor(NewSnapshotService(st, st).WithClock(fixedClock(now)), pub)

	published, err := proc.ProcessDueReminders(context.Background(), now)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if published != 2 {
		t.Fatalf("published = %d, want 2", published)
	}

	byClient := map[string]*amqp.PaymentReminderMessage{}
	for _, m := range pub.messages {
		byClient[m.ClientID] = m
	}

	ana, ok := byClient["c1"]
	if !ok {
		t.Fatal("no reminder for c1")
	}
	if ana.Status != "dueSoon" || ana.DaysRemaining != 3 || ana.ExpirationDate != "2024-06-13" {
		t.Errorf("c1 reminder: %+v", ana)
	}
	if ana.ClientName != "Ana Souza" {
		t.Errorf("c1 name = %q", ana.ClientName)
	}

	bruno, ok := byClient["c2"]
	if !ok {
		t.Fatal("no reminder for c2")
	}
	if bruno.Status != "overdue" || bruno.DaysRemaining != -2 {
		t.Errorf("c2 reminder: %+v", bruno)
	}
}

func TestProcessDueRemindersSkipsCurrent(t *testing.T) {
	st := seedStore(t)
	// Well before either expiration: both clients are current.
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	pub := &capturePublisher{}
	proc := NewReminderProcessor(NewSnapshotService(st, st).WithClock(fixedClock(now)), pub)

	published, err := proc.ProcessDueReminders(context.Background(), now)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if published != 0 || len(pub.messages) != 0 {
		t.Fatalf("expected no reminders, got %d", len(pub.messages))
	}
}

func TestProcessDueRemindersContinuesOnPublishError(t *testing.T) {
	st := seedStore(t)
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	pub := &capturePublisher{failFor: "c1"}
	proc := NewReminderProcessor(NewSnapshotService(st, st).WithClock(fixedClock(now)), pub)

	published, err := proc.ProcessDueReminders(context.Background(), now)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if published != 1 {
		t.Fatalf("published = %d, want 1", published)
	}
	if len(pub.messages) != 1 || pub.messages[0].ClientID != "c2" {
		t.Fatalf("unexpected messages: %+v", pub.messages)
	}
}
