package core

import "sort"

// Aggregate joins each client with its payment history, sorted by payment
// date descending with ties broken by payment ID. The sort is stable and
// total, so re-aggregating the same inputs always yields the same ordering.
// Client input order is preserved. The input collections are not mutated.
func Aggregate(clients []Client, paymentsByClient map[string][]Payment) []AggregatedClient {
	out := make([]AggregatedClient, 0, len(clients))
	for _, c := range clients {
		payments := append([]Payment(nil), paymentsByClient[c.ID]...)
		sort.SliceStable(payments, func(i, j int) bool {
			if !payments[i].PaymentDate.Equal(payments[j].PaymentDate.Time) {
				return payments[i].PaymentDate.After(payments[j].PaymentDate.Time)
			}
			return payments[i].ID < payments[j].ID
		})
		out = append(out, AggregatedClient{Client: c, Payments: payments})
	}
	return out
}
