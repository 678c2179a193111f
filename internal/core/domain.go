package core

import (
	"errors"
	"strings"
)

const (
	MethodCash  PaymentMethod = "dinheiro"
	MethodPix   PaymentMethod = "pix"
	MethodCard  PaymentMethod = "cartao"
	MethodOther PaymentMethod = "outro"
)

type (
	PaymentMethod string

	// Client is a registered person tracked for recurring payments.
	Client struct {
		ID       string
		Name     string
		Email    string // optional
		Phone    string // optional
		Locality string
	}

	// Payment is one recorded payment event. ExpirationDate is derived
	// from PaymentDate and persisted redundantly by the store.
	Payment struct {
		ID             string
		ClientID       string
		PaymentDate    Date
		ExpirationDate Date
		Method         PaymentMethod
	}

	// AggregatedClient is a client joined with its payment history,
	// ordered by payment date descending. Ephemeral: recomputed on
	// every fetch, never persisted.
	AggregatedClient struct {
		Client
		Payments []Payment
	}
)

var (
	ErrEmptyName          = errors.New("empty client name")
	ErrUnknownLocality    = errors.New("unknown locality")
	ErrEmptyClientID      = errors.New("empty client id")
	ErrUnknownMethod      = errors.New("unknown payment method")
	ErrExpirationMismatch = errors.New("expiration date does not match payment date offset")
)

// KnownLocalities is the closed set of towns clients can belong to.
var KnownLocalities = []string{
	"Itajubá",
	"Piranguinho",
	"Pouso Alegre",
	"Santa Rita do Sapucaí",
	"Maria da Fé",
	"Delfim Moreira",
}

// KnownLocality reports whether the town is in the closed set.
func KnownLocality(name string) bool {
	for _, l := range KnownLocalities {
		if l == name {
			return true
		}
	}
	return false
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodPix, MethodCard, MethodOther:
		return true
	default:
		return false
	}
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !KnownLocality(c.Locality) {
		return ErrUnknownLocality
	}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.ClientID) == "" {
		return ErrEmptyClientID
	}
	if err := p.PaymentDate.Validate(); err != nil {
		return err
	}
	if !p.Method.IsValid() {
		return ErrUnknownMethod
	}
	if !p.ExpirationDate.Equal(p.PaymentDate.AddDays(ExpirationOffsetDays).Time) {
		return ErrExpirationMismatch
	}
	return nil
}

// CurrentPayment returns the most recent payment, the one status is
// derived from. ok is false when the client has no payments.
func (a AggregatedClient) CurrentPayment() (Payment, bool) {
	if len(a.Payments) == 0 {
		return Payment{}, false
	}
	return a.Payments[0], true
}

// Status derives the risk status from the current payment's expiration
// date relative to today. Clients without payments are StatusNone.
func (a AggregatedClient) Status(today Date) RiskStatus {
	current, ok := a.CurrentPayment()
	if !ok {
		return StatusNone
	}
	return Classify(DaysRemaining(current.ExpirationDate, today))
}
