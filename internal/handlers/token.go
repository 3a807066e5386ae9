package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"cardapi/internal/auth"
)

type tokenRequest struct {
	MerchantID int64  `json:"merchantId"`
	Secret     string `json:"secret"`
}

func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	merchant, err := h.merchants.GetByID(r.Context(), req.MerchantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}
	if !auth.CheckSecret(merchant.SecretHash, req.Secret) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, merchant.ID, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}
