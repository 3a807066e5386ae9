package handlers

import (
	"net/http"
	"strconv"

	"cardapi/internal/middleware"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := middleware.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = parsed
	}
	rows, err := h.transactions.ListByMerchant(r.Context(), merchantID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": rows})
}
