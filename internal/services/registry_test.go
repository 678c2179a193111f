package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"strike/internal/core"
	"strike/internal/store"
	"strike/internal/store/memory"
)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestRegisterClient(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewRegistryService(st).WithIDGenerator(sequentialIDs("c"))

	c, err := svc.RegisterClient(ctx, core.Client{Name: "  Ana Souza ", Email: "ana@example.com", Locality: "Itajubá"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if c.ID != "c-1" {
		t.Errorf("id = %q", c.ID)
	}
	if c.Name != "Ana Souza" {
		t.Errorf("name not trimmed: %q", c.Name)
	}

	rec, err := st.GetClient(ctx, "c-1")
	if err != nil || rec.Name != "Ana Souza" {
		t.Fatalf("persisted record: %+v err=%v", rec, err)
	}

	if _, err := svc.RegisterClient(ctx, core.Client{Name: "", Locality: "Itajubá"}); !errors.Is(err, core.ErrEmptyName) {
		t.Errorf("blank name = %v, want ErrEmptyName", err)
	}
	if _, err := svc.RegisterClient(ctx, core.Client{Name: "X", Locality: "Nowhere"}); !errors.Is(err, core.ErrUnknownLocality) {
		t.Errorf("bad locality = %v, want ErrUnknownLocality", err)
	}
}

func TestRecordPaymentDerivesExpiration(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewRegistryService(st).WithIDGenerator(sequentialIDs("id"))

	client, err := svc.RegisterClient(ctx, core.Client{Name: "Ana", Locality: "Itajubá"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	paid := core.NewDate(2024, 1, 15)
	p, err := svc.RecordPayment(ctx, client.ID, paid, core.MethodPix)
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if !p.ExpirationDate.Equal(core.NewDate(2024, 2, 14).Time) {
		t.Errorf("expiration = %s, want 2024-02-14", p.ExpirationDate)
	}

	rec, err := st.GetPayment(ctx, p.ID)
	if err != nil {
		t.Fatalf("persisted payment: %v", err)
	}
	if rec.PaymentDate != "2024-01-15" || rec.ExpirationDate != "2024-02-14" {
		t.Errorf("persisted dates: %+v", rec)
	}
}

func TestRecordPaymentUnknownClient(t *testing.T) {
	svc := NewRegistryService(memory.New())
	_, err := svc.RecordPayment(context.Background(), "ghost", core.NewDate(2024, 1, 15), core.MethodPix)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdatePaymentRecomputesExpiration(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewRegistryService(st).WithIDGenerator(sequentialIDs("id"))

	client, _ := svc.RegisterClient(ctx, core.Client{Name: "Ana", Locality: "Itajubá"})
	p, err := svc.RecordPayment(ctx, client.ID, core.NewDate(2024, 1, 15), core.MethodPix)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	updated, err := svc.UpdatePayment(ctx, p.ID, core.NewDate(2024, 3, 1), core.MethodCard)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.ExpirationDate.Equal(core.NewDate(2024, 3, 31).Time) {
		t.Errorf("expiration = %s, want 2024-03-31", updated.ExpirationDate)
	}
	if updated.Method != core.MethodCard {
		t.Errorf("method = %s", updated.Method)
	}

	rec, _ := st.GetPayment(ctx, p.ID)
	if rec.ExpirationDate != "2024-03-31" {
		t.Errorf("persisted expiration = %s", rec.ExpirationDate)
	}
}

func TestDeleteClientThenSnapshotDropsIt(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	reg := NewRegistryService(st).WithIDGenerator(sequentialIDs("id"))

	client, _ := reg.RegisterClient(ctx, core.Client{Name: "Ana", Locality: "Itajubá"})
	if _, err := reg.RecordPayment(ctx, client.ID, core.NewDate(2024, 1, 15), core.MethodPix); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := reg.DeleteClient(ctx, client.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Re-aggregation after the external delete sees no trace of the client.
	snap, err := NewSnapshotService(st, st).Take(ctx)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if len(snap.Clients) != 0 {
		t.Fatalf("expected empty aggregation, got %d", len(snap.Clients))
	}
}
