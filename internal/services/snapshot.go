// Package services orchestrates the core engine over the store ports:
// fetching and normalizing records, client/payment registration, and
// reminder publishing.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"strike/internal/core"
	"strike/internal/store"
)

// DefaultFetchConcurrency bounds the per-client payment fetches of one pass.
const DefaultFetchConcurrency = 8

// PaymentFault reports a payment that was excluded from the aggregation
// because its record could not be normalized.
type PaymentFault struct {
	PaymentID string
	ClientID  string
	Err       error
}

// Snapshot is one complete aggregation pass: every client joined with its
// normalized payment history, plus the payments that had to be excluded.
type Snapshot struct {
	Clients []core.AggregatedClient
	Faults  []PaymentFault
	Today   core.Date
	TakenAt time.Time
}

// Calendar builds the day-keyed due index over the snapshot.
func (s Snapshot) Calendar() core.CalendarIndex {
	return core.BuildCalendarIndex(s.Clients)
}

// SnapshotService recomputes the aggregated view on demand. Each call is a
// pure function of the store's contents; callers re-run it after any
// external mutation.
type SnapshotService struct {
	clients     store.ClientLister
	payments    store.PaymentLister
	concurrency int
	now         func() time.Time
}

func NewSnapshotService(clients store.ClientLister, payments store.PaymentLister) *SnapshotService {
	return &SnapshotService{
		clients:     clients,
		payments:    payments,
		concurrency: DefaultFetchConcurrency,
		now:         time.Now,
	}
}

// WithConcurrency overrides the payment fetch parallelism.
func (s *SnapshotService) WithConcurrency(n int) *SnapshotService {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// WithClock overrides the time source, for tests.
func (s *SnapshotService) WithClock(now func() time.Time) *SnapshotService {
	s.now = now
	return s
}

// Take fetches all clients, fetches each client's payments concurrently,
// normalizes dates once, and aggregates. A payment with a malformed date is
// excluded and reported in Faults; the pass never aborts because of one
// bad record.
func (s *SnapshotService) Take(ctx context.Context) (Snapshot, error) {
	records, err := s.clients.ListClients(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list clients: %w", err)
	}

	paymentRecords := make([][]store.PaymentRecord, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, rec := range records {
		g.Go(func() error {
			payments, err := s.payments.ListPaymentsByClient(gctx, rec.ID)
			if err != nil {
				return fmt.Errorf("list payments for client %s: %w", rec.ID, err)
			}
			paymentRecords[i] = payments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	clients := make([]core.Client, len(records))
	paymentsByClient := make(map[string][]core.Payment, len(records))
	var faults []PaymentFault
	for i, rec := range records {
		clients[i] = clientFromRecord(rec)
		for _, pr := range paymentRecords[i] {
			payment, err := paymentFromRecord(pr)
			if err != nil {
				faults = append(faults, PaymentFault{PaymentID: pr.ID, ClientID: pr.ClientID, Err: err})
				slog.WarnContext(ctx, "Excluding payment with invalid date",
					"payment_id", pr.ID,
					"client_id", pr.ClientID,
					"error", err)
				continue
			}
			paymentsByClient[rec.ID] = append(paymentsByClient[rec.ID], payment)
		}
	}

	now := s.now()
	return Snapshot{
		Clients: core.Aggregate(clients, paymentsByClient),
		Faults:  faults,
		Today:   core.DateOf(now),
		TakenAt: now,
	}, nil
}

func clientFromRecord(rec store.ClientRecord) core.Client {
	return core.Client{
		ID:       rec.ID,
		Name:     rec.Name,
		Email:    rec.Email,
		Phone:    rec.Phone,
		Locality: rec.Locality,
	}
}

// paymentFromRecord normalizes one raw payment row. The payment date is
// authoritative: the stored expiration is recomputed whenever it is absent
// or out of step with the offset invariant, so legacy rows written with
// drifting offsets converge on ingestion.
func paymentFromRecord(rec store.PaymentRecord) (core.Payment, error) {
	paid, err := core.ParseDate(rec.PaymentDate)
	if err != nil {
		return core.Payment{}, fmt.Errorf("payment date: %w", err)
	}

	expiration := paid.AddDays(core.ExpirationOffsetDays)
	if stored, err := core.ParseDate(rec.ExpirationDate); err == nil && stored.Equal(expiration.Time) {
		expiration = stored
	}

	method := core.PaymentMethod(rec.Method)
	if !method.IsValid() {
		method = core.MethodOther
	}

	return core.Payment{
		ID:             rec.ID,
		ClientID:       rec.ClientID,
		PaymentDate:    paid,
		ExpirationDate: expiration,
		Method:         method,
	}, nil
}
