package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"strike/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "strike.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	c := store.ClientRecord{ID: "c1", Name: "Ana", Email: "ana@example.com", Phone: "35 99999-0001", Locality: "Itajubá"}
	if err := repo.CreateClient(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetClient(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != c {
		t.Fatalf("got %+v, want %+v", got, c)
	}

	c.Name = "Ana Souza"
	if err := repo.UpdateClient(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := repo.ListClients(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Ana Souza" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := repo.DeleteClient(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetClient(ctx, "c1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get after delete = %v, want ErrNotFound", err)
	}
	if err := repo.UpdateClient(ctx, c); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update missing = %v, want ErrNotFound", err)
	}
}

func TestPaymentRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p := store.PaymentRecord{ID: "p1", ClientID: "c1", PaymentDate: "2024-01-15", ExpirationDate: "2024-02-14", Method: "pix"}
	if err := repo.CreatePayment(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := store.PaymentRecord{ID: "p2", ClientID: "c2", PaymentDate: "2024-01-20", ExpirationDate: "2024-02-19", Method: "dinheiro"}
	if err := repo.CreatePayment(ctx, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	got, err := repo.GetPayment(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != p {
		t.Fatalf("got %+v, want %+v", got, p)
	}

	byClient, err := repo.ListPaymentsByClient(ctx, "c1")
	if err != nil {
		t.Fatalf("list by client: %v", err)
	}
	if len(byClient) != 1 || byClient[0].ID != "p1" {
		t.Fatalf("unexpected payments: %+v", byClient)
	}

	p.PaymentDate = "2024-02-01"
	p.ExpirationDate = "2024-03-02"
	if err := repo.UpdatePayment(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.GetPayment(ctx, "p1")
	if got.ExpirationDate != "2024-03-02" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := repo.DeletePayment(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetPayment(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strike.db")
	repo, err := NewRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()

	// Reopening must not fail on an already-migrated database.
	repo, err = NewRepository(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	repo.Close()
}
