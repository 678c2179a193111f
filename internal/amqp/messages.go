package amqp

import (
	"encoding/json"
	"time"
)

// PaymentReminderMessage notifies downstream consumers (SMS/email senders)
// that a client's current payment is due soon or overdue.
type PaymentReminderMessage struct {
	ClientID       string    `json:"client_id"`
	ClientName     string    `json:"client_name"`
	Status         string    `json:"status"`
	ExpirationDate string    `json:"expiration_date"`
	DaysRemaining  int       `json:"days_remaining"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewPaymentReminderMessage stamps a reminder with the current time.
func NewPaymentReminderMessage(clientID, clientName, status, expirationDate string, daysRemaining int) *PaymentReminderMessage {
	return &PaymentReminderMessage{
		ClientID:       clientID,
		ClientName:     clientName,
		Status:         status,
		ExpirationDate: expirationDate,
		DaysRemaining:  daysRemaining,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *PaymentReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PaymentReminderMessageFromJSON decodes a reminder message.
func PaymentReminderMessageFromJSON(data []byte) (*PaymentReminderMessage, error) {
	var msg PaymentReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
