package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"strike/internal/core"
	applog "strike/internal/log"
	"strike/internal/store"
)

// RegistryService handles client and payment registration. It owns the
// expiration invariant: the expiration date is always recomputed from the
// payment date before anything reaches the store.
type RegistryService struct {
	store store.Store
	newID func() string
}

func NewRegistryService(st store.Store) *RegistryService {
	return &RegistryService{
		store: st,
		newID: func() string { return uuid.NewString() },
	}
}

// WithIDGenerator overrides ID generation, for tests.
func (s *RegistryService) WithIDGenerator(gen func() string) *RegistryService {
	s.newID = gen
	return s
}

// RegisterClient validates and persists a new client, assigning its ID.
func (s *RegistryService) RegisterClient(ctx context.Context, c core.Client) (core.Client, error) {
	c.ID = s.newID()
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	if err := s.store.CreateClient(ctx, clientToRecord(c)); err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}

	slog.InfoContext(ctx, "Client registered", applog.NewFields().
		WithComponent(applog.ComponentRegistry).
		WithOperation(applog.OpCreate).
		WithClient(c.ID, c.Name).
		ToSlice()...)
	return c, nil
}

// UpdateClient validates and persists changes to an existing client.
func (s *RegistryService) UpdateClient(ctx context.Context, c core.Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateClient(ctx, clientToRecord(c)); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// DeleteClient removes the client record. Its payments are removed
// independently; the aggregated view drops them on the next pass.
func (s *RegistryService) DeleteClient(ctx context.Context, id string) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// RecordPayment registers a payment for an existing client. The expiration
// date is derived here, never taken from the caller.
func (s *RegistryService) RecordPayment(ctx context.Context, clientID string, paid core.Date, method core.PaymentMethod) (core.Payment, error) {
	if _, err := s.store.GetClient(ctx, clientID); err != nil {
		return core.Payment{}, fmt.Errorf("lookup client: %w", err)
	}

	p := core.Payment{
		ID:             s.newID(),
		ClientID:       clientID,
		PaymentDate:    paid,
		ExpirationDate: paid.AddDays(core.ExpirationOffsetDays),
		Method:         method,
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	if err := s.store.CreatePayment(ctx, paymentToRecord(p)); err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment recorded", applog.NewFields().
		WithComponent(applog.ComponentRegistry).
		WithOperation(applog.OpCreate).
		WithPayment(p.ID, p.PaymentDate.String(), p.ExpirationDate.String()).
		ToSlice()...)
	return p, nil
}

// UpdatePayment edits a payment's date and method, recomputing the
// expiration date from the new payment date.
func (s *RegistryService) UpdatePayment(ctx context.Context, id string, paid core.Date, method core.PaymentMethod) (core.Payment, error) {
	existing, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return core.Payment{}, fmt.Errorf("lookup payment: %w", err)
	}

	p := core.Payment{
		ID:             existing.ID,
		ClientID:       existing.ClientID,
		PaymentDate:    paid,
		ExpirationDate: paid.AddDays(core.ExpirationOffsetDays),
		Method:         method,
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	if err := s.store.UpdatePayment(ctx, paymentToRecord(p)); err != nil {
		return core.Payment{}, fmt.Errorf("update payment: %w", err)
	}
	return p, nil
}

func (s *RegistryService) DeletePayment(ctx context.Context, id string) error {
	if err := s.store.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

func clientToRecord(c core.Client) store.ClientRecord {
	return store.ClientRecord{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Locality: c.Locality,
	}
}

func paymentToRecord(p core.Payment) store.PaymentRecord {
	return store.PaymentRecord{
		ID:             p.ID,
		ClientID:       p.ClientID,
		PaymentDate:    p.PaymentDate.String(),
		ExpirationDate: p.ExpirationDate.String(),
		Method:         string(p.Method),
	}
}
