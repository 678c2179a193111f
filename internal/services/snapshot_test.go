package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"strike/internal/core"
	"strike/internal/store"
	"strike/internal/store/memory"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.New()

	clients := []store.ClientRecord{
		{ID: "c1", Name: "Ana Souza", Locality: "Itajubá"},
		{ID: "c2", Name: "Bruno Lima", Locality: "Piranguinho"},
	}
	for _, c := range clients {
		if err := s.CreateClient(ctx, c); err != nil {
			t.Fatalf("seed client: %v", err)
		}
	}

	payments := []store.PaymentRecord{
		{ID: "p1", ClientID: "c1", PaymentDate: "2024-05-14", ExpirationDate: "2024-06-13", Method: "pix"},
		{ID: "p2", ClientID: "c1", PaymentDate: "2024-04-14", ExpirationDate: "2024-05-14", Method: "pix"},
		{ID: "p3", ClientID: "c2", PaymentDate: "2024-05-09", ExpirationDate: "2024-06-08", Method: "dinheiro"},
	}
	for _, p := range payments {
		if err := s.CreatePayment(ctx, p); err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}
	return s
}

func TestSnapshotTake(t *testing.T) {
	st := seedStore(t)
	now := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)
	svc := NewSnapshotService(st, st).WithClock(fixedClock(now))

	snap, err := svc.Take(context.Background())
	if err != nil {
		t.Fatalf("take: %v", err)
	}

	if len(snap.Clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(snap.Clients))
	}
	if len(snap.Faults) != 0 {
		t.Fatalf("unexpected faults: %+v", snap.Faults)
	}
	if !snap.Today.Equal(core.NewDate(2024, 6, 10).Time) {
		t.Fatalf("today = %s", snap.Today)
	}

	// c1's current payment is its most recent; due in 3 days -> dueSoon.
	ana := snap.Clients[0]
	current, ok := ana.CurrentPayment()
	if !ok || current.ID != "p1" {
		t.Fatalf("current payment = %+v ok=%v", current, ok)
	}
	if got := ana.Status(snap.Today); got != core.StatusDueSoon {
		t.Errorf("ana status = %s, want dueSoon", got)
	}

	// c2 expired two days ago -> overdue.
	if got := snap.Clients[1].Status(snap.Today); got != core.StatusOverdue {
		t.Errorf("bruno status = %s, want overdue", got)
	}
}

func TestSnapshotIsolatesInvalidDates(t *testing.T) {
	ctx := context.Background()
	st := seedStore(t)
	if err := st.CreatePayment(ctx, store.PaymentRecord{
		ID: "bad", ClientID: "c1", PaymentDate: "15/05/2024", ExpirationDate: "", Method: "pix",
	}); err != nil {
		t.Fatalf("seed bad payment: %v", err)
	}

	svc := NewSnapshotService(st, st).WithClock(fixedClock(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	snap, err := svc.Take(ctx)
	if err != nil {
		t.Fatalf("take: %v", err)
	}

	if len(snap.Faults) != 1 {
		t.Fatalf("expected 1 fault, got %d", len(snap.Faults))
	}
	fault := snap.Faults[0]
	if fault.PaymentID != "bad" || fault.ClientID != "c1" {
		t.Fatalf("unexpected fault: %+v", fault)
	}
	if !errors.Is(fault.Err, core.ErrInvalidDate) {
		t.Fatalf("fault err = %v, want ErrInvalidDate", fault.Err)
	}

	// The client's valid payments are unaffected.
	if len(snap.Clients[0].Payments) != 2 {
		t.Fatalf("expected 2 valid payments, got %d", len(snap.Clients[0].Payments))
	}
}

func TestSnapshotNormalizesDriftedExpiration(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_ = s.CreateClient(ctx, store.ClientRecord{ID: "c1", Name: "Ana", Locality: "Itajubá"})
	// Legacy row written with a "+1 month" offset instead of +30 days.
	_ = s.CreatePayment(ctx, store.PaymentRecord{
		ID: "p1", ClientID: "c1", PaymentDate: "2024-01-31", ExpirationDate: "2024-02-29", Method: "pix",
	})

	svc := NewSnapshotService(s, s).WithClock(fixedClock(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	snap, err := svc.Take(ctx)
	if err != nil {
		t.Fatalf("take: %v", err)
	}

	p := snap.Clients[0].Payments[0]
	want := core.NewDate(2024, 1, 31).AddDays(core.ExpirationOffsetDays)
	if !p.ExpirationDate.Equal(want.Time) {
		t.Errorf("expiration = %s, want %s", p.ExpirationDate, want)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("normalized payment should validate, got %v", err)
	}
}

func TestSnapshotMapsUnknownMethodToOther(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_ = s.CreateClient(ctx, store.ClientRecord{ID: "c1", Name: "Ana", Locality: "Itajubá"})
	// Early revisions recorded payments without a method.
	_ = s.CreatePayment(ctx, store.PaymentRecord{
		ID: "p1", ClientID: "c1", PaymentDate: "2024-01-15", ExpirationDate: "2024-02-14",
	})

	svc := NewSnapshotService(s, s)
	snap, err := svc.Take(ctx)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got := snap.Clients[0].Payments[0].Method; got != core.MethodOther {
		t.Errorf("method = %s, want outro", got)
	}
}

func TestSnapshotEmptyStore(t *testing.T) {
	svc := NewSnapshotService(memory.New(), memory.New())
	snap, err := svc.Take(context.Background())
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if len(snap.Clients) != 0 || len(snap.Faults) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
	if events := snap.Calendar().EventsOn(core.NewDate(2024, 1, 1)); len(events) != 0 {
		t.Fatalf("expected empty calendar, got %d events", len(events))
	}
}

func TestSnapshotCalendar(t *testing.T) {
	st := seedStore(t)
	svc := NewSnapshotService(st, st).WithClock(fixedClock(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	snap, err := svc.Take(context.Background())
	if err != nil {
		t.Fatalf("take: %v", err)
	}

	events := snap.Calendar().EventsOn(core.NewDate(2024, 6, 13))
	if len(events) != 1 || events[0].ClientID != "c1" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Title != "Ana Souza - Vencimento" {
		t.Errorf("title = %q", events[0].Title)
	}
}
