package http

import (
	"strike/internal/core"
)

type paymentView struct {
	ID             string `json:"id"`
	ClientID       string `json:"clientId"`
	PaymentDate    string `json:"paymentDate"`
	ExpirationDate string `json:"expirationDate"`
	Method         string `json:"method"`
}

type clientView struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Locality      string        `json:"locality"`
	Status        string        `json:"status"`
	DaysRemaining *int          `json:"daysRemaining,omitempty"`
	Payments      []paymentView `json:"payments"`
}

type clientListResponse struct {
	Clients   []clientView `json:"clients"`
	Page      int          `json:"page"`
	PageCount int          `json:"pageCount"`
	PageSize  int          `json:"pageSize"`
	Faults    int          `json:"faults"`
}

type eventView struct {
	Date     string        `json:"date"`
	ClientID string        `json:"clientId"`
	Title    string        `json:"title"`
	Payments []paymentView `json:"payments"`
}

type calendarResponse struct {
	Events map[string][]eventView `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type clientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Locality string `json:"locality"`
}

type paymentRequest struct {
	PaymentDate string `json:"paymentDate"`
	Method      string `json:"method"`
}

func newPaymentView(p core.Payment) paymentView {
	return paymentView{
		ID:             p.ID,
		ClientID:       p.ClientID,
		PaymentDate:    p.PaymentDate.String(),
		ExpirationDate: p.ExpirationDate.String(),
		Method:         string(p.Method),
	}
}

func newClientView(a core.AggregatedClient, today core.Date) clientView {
	v := clientView{
		ID:       a.ID,
		Name:     a.Name,
		Email:    a.Email,
		Phone:    a.Phone,
		Locality: a.Locality,
		Status:   string(a.Status(today)),
		Payments: make([]paymentView, 0, len(a.Payments)),
	}
	if current, ok := a.CurrentPayment(); ok {
		days := core.DaysRemaining(current.ExpirationDate, today)
		v.DaysRemaining = &days
	}
	for _, p := range a.Payments {
		v.Payments = append(v.Payments, newPaymentView(p))
	}
	return v
}

func newEventView(e core.CalendarEvent) eventView {
	v := eventView{
		Date:     e.Date.String(),
		ClientID: e.ClientID,
		Title:    e.Title,
		Payments: make([]paymentView, 0, len(e.Details)),
	}
	for _, p := range e.Details {
		v.Payments = append(v.Payments, newPaymentView(p))
	}
	return v
}
