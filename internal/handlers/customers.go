package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"cardapi/internal/middleware"
	"cardapi/internal/store"
	"cardapi/internal/validator"

	"github.com/jmoiron/sqlx"
)

type createCustomerRequest struct {
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	BirthDate   string `json:"birthDate"`
	Address     string `json:"address"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	StateRegion string `json:"stateRegion"`
	Country     string `json:"country"`
	PostalCode  string `json:"postalCode"`
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := middleware.MerchantIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		respondError(w, http.StatusBadRequest, "first and last name are required")
		return
	}
	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
		return
	}
	var customerID int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		customerID, err = h.customers.Create(r.Context(), tx, store.CustomerInput{
			Phone:       req.Phone,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			BirthDate:   birthDate,
			Address:     req.Address,
			Address2:    req.Address2,
			City:        req.City,
			StateRegion: req.StateRegion,
			Country:     req.Country,
			PostalCode:  req.PostalCode,
			MerchantID:  merchantID,
		})
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "customer creation failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"customer_id": customerID})
}
