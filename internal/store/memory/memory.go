// Package memory is an in-memory store used as the default backend and as
// the test fake for everything that consumes the store ports.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"strike/internal/store"
)

type Store struct {
	mu       sync.Mutex
	clients  []store.ClientRecord
	payments []store.PaymentRecord
}

// Seed is the JSON shape accepted by NewFromFile.
type Seed struct {
	Clients  []store.ClientRecord  `json:"clients"`
	Payments []store.PaymentRecord `json:"payments"`
}

func New() *Store {
	return &Store{}
}

// NewFromFile loads a JSON seed. A missing file yields an empty store;
// a malformed one is an error.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var seed Seed
	if err := json.NewDecoder(f).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	s := New()
	s.clients = append(s.clients, seed.Clients...)
	s.payments = append(s.payments, seed.Payments...)
	return s, nil
}

func (s *Store) ListClients(_ context.Context) ([]store.ClientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.ClientRecord(nil), s.clients...), nil
}

func (s *Store) GetClient(_ context.Context, id string) (store.ClientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return store.ClientRecord{}, fmt.Errorf("client %s: %w", id, store.ErrNotFound)
}

func (s *Store) CreateClient(_ context.Context, c store.ClientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.clients {
		if existing.ID == c.ID {
			return fmt.Errorf("client %s: %w", c.ID, store.ErrConflict)
		}
	}
	s.clients = append(s.clients, c)
	return nil
}

func (s *Store) UpdateClient(_ context.Context, c store.ClientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.clients {
		if existing.ID == c.ID {
			s.clients[i] = c
			return nil
		}
	}
	return fmt.Errorf("client %s: %w", c.ID, store.ErrNotFound)
}

// DeleteClient removes only the client row. Payment records are deleted
// independently; aggregation drops orphans on the next pass.
func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.clients {
		if existing.ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("client %s: %w", id, store.ErrNotFound)
}

func (s *Store) ListPaymentsByClient(_ context.Context, clientID string) ([]store.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.PaymentRecord
	for _, p := range s.payments {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) GetPayment(_ context.Context, id string) (store.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return store.PaymentRecord{}, fmt.Errorf("payment %s: %w", id, store.ErrNotFound)
}

func (s *Store) CreatePayment(_ context.Context, p store.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.payments {
		if existing.ID == p.ID {
			return fmt.Errorf("payment %s: %w", p.ID, store.ErrConflict)
		}
	}
	s.payments = append(s.payments, p)
	return nil
}

func (s *Store) UpdatePayment(_ context.Context, p store.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.payments {
		if existing.ID == p.ID {
			s.payments[i] = p
			return nil
		}
	}
	return fmt.Errorf("payment %s: %w", p.ID, store.ErrNotFound)
}

func (s *Store) DeletePayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.payments {
		if existing.ID == id {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("payment %s: %w", id, store.ErrNotFound)
}
