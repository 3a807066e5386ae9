package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"cardapi/internal/middleware"
	"cardapi/internal/models"
	"cardapi/internal/services"
	"cardapi/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type createCardRequest struct {
	CustomerID int64  `json:"customerId"`
	Currency   string `json:"currency"`
	Name       string `json:"name"`
}

// CreateCard provisions a virtual card: a fresh backing ledger account plus
// the card row pointing at it, written as one unit.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := middleware.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateCurrency(req.Currency); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	customer, err := h.customers.GetByID(r.Context(), req.CustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "customer does not exist")
			return
		}
		respondError(w, http.StatusInternalServerError, "card creation failed")
		return
	}
	if customer.MerchantID != merchantID {
		respondError(w, http.StatusForbidden, "access denied")
		return
	}
	accountName := req.Name
	if accountName == "" {
		accountName = "card account"
	}
	token := uuid.NewString()
	var cardID, accountID int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		accountID, err = h.accounts.Create(r.Context(), tx, accountName, req.Currency, merchantID)
		if err != nil {
			return err
		}
		cardID, err = h.cards.Create(r.Context(), tx, token, models.CardVirtual, customer.ID, accountID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "card creation failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"card_id":    cardID,
		"token":      token,
		"account_id": accountID,
	})
}

type cardTransferRequest struct {
	CardID  int64  `json:"cardId"`
	Amount  int64  `json:"amount"`
	OrderID string `json:"orderId"`
}

func (h *Handler) CardDeposit(w http.ResponseWriter, r *http.Request) {
	h.cardTransfer(w, r, h.service.CardDeposit)
}

func (h *Handler) CardWithdraw(w http.ResponseWriter, r *http.Request) {
	h.cardTransfer(w, r, h.service.CardWithdraw)
}

func (h *Handler) cardTransfer(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, req services.CardTransferRequest) (int64, error)) {
	merchantID, ok := middleware.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req cardTransferRequest
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
	transactionID, err := op(r.Context(), services.CardTransferRequest{
		MerchantID: merchantID,
		CardID:     req.CardID,
		Amount:     req.Amount,
		OrderID:    req.OrderID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transaction_id": transactionID})
}
