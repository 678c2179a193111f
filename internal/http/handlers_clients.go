package http

import (
	"net/http"
	"strconv"
	"strings"

	"strike/internal/core"
)

// handleListClients serves the aggregated client list with filtering and
// pagination. Filters combine; an empty result set is a valid page.
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	snap, err := s.currentSnapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()

	pageSize := s.defaultPageSize
	if v := strings.TrimSpace(q.Get("pageSize")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}

	view := core.NewListView(pageSize)
	view.SetNameQuery(q.Get("name"))
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		status := core.RiskStatus(v)
		if !status.IsValid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown status: " + v})
			return
		}
		view.SetStatus(status)
	}
	view.SetLocality(strings.TrimSpace(q.Get("locality")))
	if v := strings.TrimSpace(q.Get("page")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			view.SetPage(p)
		}
	}

	page, pageCount := view.Slice(snap.Clients, snap.Today)

	resp := clientListResponse{
		Clients:   make([]clientView, 0, len(page)),
		Page:      view.Page(),
		PageCount: pageCount,
		PageSize:  view.PageSize(),
		Faults:    len(snap.Faults),
	}
	for _, c := range page {
		resp.Clients = append(resp.Clients, newClientView(c, snap.Today))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	client, err := s.registry.RegisterClient(r.Context(), core.Client{
		Name:     sanitizeInput(req.Name),
		Email:    sanitizeInput(req.Email),
		Phone:    sanitizeInput(req.Phone),
		Locality: sanitizeInput(req.Locality),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSnapshot()
	writeJSON(w, http.StatusCreated, newClientView(core.AggregatedClient{Client: client}, core.Date{}))
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	client := core.Client{
		ID:       r.PathValue("id"),
		Name:     sanitizeInput(req.Name),
		Email:    sanitizeInput(req.Email),
		Phone:    sanitizeInput(req.Phone),
		Locality: sanitizeInput(req.Locality),
	}
	if err := s.registry.UpdateClient(r.Context(), client); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSnapshot()
	writeJSON(w, http.StatusOK, newClientView(core.AggregatedClient{Client: client}, core.Date{}))
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSnapshot()
	w.WriteHeader(http.StatusNoContent)
}
