package core

// CalendarEvent is one client's due entry on a given day. Details holds the
// subsequence of that client's payments expiring on Date, in aggregation
// order, so multiple payments from the same client share one entry.
type CalendarEvent struct {
	Date     Date
	ClientID string
	Title    string
	Details  []Payment
}

// CalendarIndex is a day-keyed lookup of which payments expire on a given
// day. Keys are normalized dates; normalization happens once, when payment
// dates are parsed, never at display time.
type CalendarIndex map[Date][]CalendarEvent

// EventTitle builds the display title for a client's due event.
func EventTitle(clientName string) string {
	return clientName + " - Vencimento"
}

// BuildCalendarIndex buckets every payment of every client by its
// expiration date. Payments from different clients due on the same day
// populate separate events under one bucket.
func BuildCalendarIndex(clients []AggregatedClient) CalendarIndex {
	index := make(CalendarIndex)
	for _, c := range clients {
		byDate := make(map[Date]*CalendarEvent)
		var order []Date
		for _, p := range c.Payments {
			ev, ok := byDate[p.ExpirationDate]
			if !ok {
				ev = &CalendarEvent{
					Date:     p.ExpirationDate,
					ClientID: c.ID,
					Title:    EventTitle(c.Name),
				}
				byDate[p.ExpirationDate] = ev
				order = append(order, p.ExpirationDate)
			}
			ev.Details = append(ev.Details, p)
		}
		for _, d := range order {
			index[d] = append(index[d], *byDate[d])
		}
	}
	return index
}

// EventsOn returns the events due on the given day. The result is an empty
// slice, never nil, when nothing is due.
func (ix CalendarIndex) EventsOn(d Date) []CalendarEvent {
	events, ok := ix[d]
	if !ok {
		return []CalendarEvent{}
	}
	return events
}
