// Package store defines the ports to the persistence collaborator.
//
// The document store persists raw records with ISO date strings; parsing and
// normalization happen exactly once, at ingestion, in the services layer.
package store

import (
	"context"
	"errors"
)

// Set of errors shared by all store implementations.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// ClientRecord is a client row as the store keeps it.
type ClientRecord struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Locality string
}

// PaymentRecord is a payment row as the store keeps it. Dates are ISO
// strings; ExpirationDate is persisted redundantly alongside PaymentDate.
type PaymentRecord struct {
	ID             string
	ClientID       string
	PaymentDate    string
	ExpirationDate string
	Method         string
}

// Ports for the persistence collaborator.
type (
	ClientLister interface {
		ListClients(ctx context.Context) ([]ClientRecord, error)
	}

	ClientGetter interface {
		GetClient(ctx context.Context, id string) (ClientRecord, error)
	}

	ClientWriter interface {
		CreateClient(ctx context.Context, c ClientRecord) error
		UpdateClient(ctx context.Context, c ClientRecord) error
		DeleteClient(ctx context.Context, id string) error
	}

	PaymentLister interface {
		// ListPaymentsByClient returns the client's payments in store order.
		ListPaymentsByClient(ctx context.Context, clientID string) ([]PaymentRecord, error)
	}

	PaymentGetter interface {
		GetPayment(ctx context.Context, id string) (PaymentRecord, error)
	}

	PaymentWriter interface {
		CreatePayment(ctx context.Context, p PaymentRecord) error
		UpdatePayment(ctx context.Context, p PaymentRecord) error
		DeletePayment(ctx context.Context, id string) error
	}
)

// Store bundles every port. Concrete backends (memory, sqlite) implement it;
// consumers should keep depending on the narrow interfaces.
type Store interface {
	ClientLister
	ClientGetter
	ClientWriter
	PaymentLister
	PaymentGetter
	PaymentWriter
}
