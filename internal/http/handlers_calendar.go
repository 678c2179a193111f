package http

import (
	"net/http"
	"strings"

	"strike/internal/core"
)

// handleCalendar serves the whole expiration calendar keyed by day.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	index := snap.Calendar()
	resp := calendarResponse{Events: make(map[string][]eventView, len(index))}
	for day, events := range index {
		views := make([]eventView, 0, len(events))
		for _, e := range events {
			views = append(views, newEventView(e))
		}
		resp.Events[day.String()] = views
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCalendarEvents serves the events expiring on a single day.
// A day without expirations is an empty list, not an error.
func (s *Server) handleCalendarEvents(w http.ResponseWriter, r *http.Request) {
	day, err := core.ParseDate(strings.TrimSpace(r.URL.Query().Get("date")))
	if err != nil {
		writeError(w, r, err)
		return
	}

	snap, err := s.currentSnapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	events := snap.Calendar().EventsOn(day)
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, newEventView(e))
	}

	writeJSON(w, http.StatusOK, views)
}
