package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cardapi/internal/middleware"
	"cardapi/internal/money"
	"cardapi/internal/services"
	"cardapi/internal/validator"

	"github.com/go-chi/chi/v5"
)

type fundRequest struct {
	AccountID int64  `json:"accountId"`
	Amount    int64  `json:"amount"`
	OrderID   string `json:"orderId"`
}

func (h *Handler) Fund(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := middleware.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateAmount(req.Amount); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateOrderID(req.OrderID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	transactionID, err := h.service.Fund(r.Context(), services.FundRequest{
		MerchantID: merchantID,
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		OrderID:    req.OrderID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction_id": transactionID})
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := middleware.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}
	account, err := h.accounts.GetActive(r.Context(), accountID)
	if err != nil {
		respondError(w, http.StatusNotFound, "account does not exist")
		return
	}
	if account.MerchantID != merchantID {
		respondError(w, http.StatusForbidden, "access denied")
		return
	}
	balance, err := h.service.BalanceOf(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"account_id": accountID,
		"balance":    balance,
		"display":    money.FormatMinor(balance),
		"currency":   account.Currency,
	})
}
