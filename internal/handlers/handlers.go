package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardapi/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps ledger error kinds onto HTTP statuses. Store
// failures surface only their diagnostic code.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound), errors.Is(err, services.ErrCardNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrCurrencyMismatch), errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrUnauthorizedAccount):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
