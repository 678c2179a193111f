package core

import (
	"errors"
	"testing"
)

func validPayment() Payment {
	paid := NewDate(2024, 1, 15)
	return Payment{
		ID:             "p1",
		ClientID:       "c1",
		PaymentDate:    paid,
		ExpirationDate: paid.AddDays(ExpirationOffsetDays),
		Method:         MethodPix,
	}
}

func TestClientValidate(t *testing.T) {
	good := Client{ID: "c1", Name: "Ana Souza", Locality: "Itajubá"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name    string
		client  Client
		wantErr error
	}{
		{"blank name", Client{Name: "   ", Locality: "Itajubá"}, ErrEmptyName},
		{"unknown town", Client{Name: "Ana", Locality: "Atlantis"}, ErrUnknownLocality},
		{"empty town", Client{Name: "Ana"}, ErrUnknownLocality},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.client.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentValidate(t *testing.T) {
	if err := validPayment().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	noClient := validPayment()
	noClient.ClientID = ""
	if err := noClient.Validate(); !errors.Is(err, ErrEmptyClientID) {
		t.Errorf("expected ErrEmptyClientID, got %v", err)
	}

	noDate := validPayment()
	noDate.PaymentDate = Date{}
	if err := noDate.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}

	badMethod := validPayment()
	badMethod.Method = "cheque"
	if err := badMethod.Validate(); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}

	// Expiration must track the payment date exactly.
	drifted := validPayment()
	drifted.ExpirationDate = drifted.ExpirationDate.AddDays(1)
	if err := drifted.Validate(); !errors.Is(err, ErrExpirationMismatch) {
		t.Errorf("expected ErrExpirationMismatch, got %v", err)
	}
}

func TestAggregatedClientStatus(t *testing.T) {
	today := NewDate(2024, 6, 10)

	paymentDue := func(daysOut int) Payment {
		exp := today.AddDays(daysOut)
		return Payment{
			ID:             "p",
			ClientID:       "c",
			PaymentDate:    exp.AddDays(-ExpirationOffsetDays),
			ExpirationDate: exp,
			Method:         MethodCash,
		}
	}

	tests := []struct {
		name     string
		payments []Payment
		want     RiskStatus
	}{
		{"no payments", nil, StatusNone},
		{"overdue by two", []Payment{paymentDue(-2)}, StatusOverdue},
		{"due in three", []Payment{paymentDue(3)}, StatusDueSoon},
		{"due in six", []Payment{paymentDue(6)}, StatusCurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AggregatedClient{Client: Client{ID: "c", Name: "X"}, Payments: tt.payments}
			if got := a.Status(today); got != tt.want {
				t.Errorf("Status() = %s, want %s", got, tt.want)
			}
		})
	}
}
