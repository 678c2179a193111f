package http

import (
	"net/http"

	"strike/internal/core"
)

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	paid, err := core.ParseDate(sanitizeInput(req.PaymentDate))
	if err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := s.registry.RecordPayment(r.Context(), r.PathValue("id"), paid, core.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSnapshot()
	writeJSON(w, http.StatusCreated, newPaymentView(payment))
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	paid, err := core.ParseDate(sanitizeInput(req.PaymentDate))
	if err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := s.registry.UpdatePayment(r.Context(), r.PathValue("id"), paid, core.PaymentMethod(req.Method))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSnapshot()
	writeJSON(w, http.StatusOK, newPaymentView(payment))
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.DeletePayment(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSnapshot()
	w.WriteHeader(http.StatusNoContent)
}
