package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardapi/internal/models"
	"cardapi/internal/services"
	"cardapi/internal/store"
)

func TestCreateCardProvisionsBackingAccount(t *testing.T) {
	var accountCurrency string
	var cardAccountID int64
	handler := newTestHandler(fakeTxRunner{}, stubMerchantStore{}, stubAccountStore{
		createFn: func(_ context.Context, _ store.Getter, _, currency string, _ int64) (int64, error) {
			accountCurrency = currency
			return 33, nil
		},
	}, stubCustomerStore{
		getByIDFn: func(context.Context, int64) (models.Customer, error) {
			return models.Customer{ID: 5, Active: true, MerchantID: 7}, nil
		},
	}, stubCardStore{
		createFn: func(_ context.Context, _ store.Getter, token string, cardType models.CardType, customerID, accountID int64) (int64, error) {
			if token == "" {
				t.Fatal("expected a generated card token")
			}
			if cardType != models.CardVirtual {
				t.Fatalf("unexpected card type %q", cardType)
			}
			if customerID != 5 {
				t.Fatalf("unexpected customer id %d", customerID)
			}
			cardAccountID = accountID
			return 12, nil
		},
	}, stubTransactionStore{}, stubLedgerService{})

	req := httptest.NewRequest(http.MethodPost, "/api/card", strings.NewReader(`{"customerId":5,"currency":"USD"}`))
	rr := serveWithAuth(t, handler.CreateCard, 7, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if accountCurrency != "USD" {
		t.Fatalf("backing account created with currency %q", accountCurrency)
	}
	if cardAccountID != 33 {
		t.Fatalf("card not linked to the created account, got %d", cardAccountID)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["card_id"].(float64) != 12 || payload["account_id"].(float64) != 33 {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestCreateCardForbiddenForOtherMerchantsCustomer(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubMerchantStore{}, stubAccountStore{}, stubCustomerStore{
		getByIDFn: func(context.Context, int64) (models.Customer, error) {
			return models.Customer{ID: 5, MerchantID: 99}, nil
		},
	}, stubCardStore{}, stubTransactionStore{}, stubLedgerService{})

	req := httptest.NewRequest(http.MethodPost, "/api/card", strings.NewReader(`{"customerId":5,"currency":"USD"}`))
	rr := serveWithAuth(t, handler.CreateCard, 7, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestCreateCardRejectsBadCurrency(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubMerchantStore{}, stubAccountStore{}, stubCustomerStore{}, stubCardStore{}, stubTransactionStore{}, stubLedgerService{})

	req := httptest.NewRequest(http.MethodPost, "/api/card", strings.NewReader(`{"customerId":5,"currency":"usd"}`))
	rr := serveWithAuth(t, handler.CreateCard, 7, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCardDepositPassesMerchantFromToken(t *testing.T) {
	var captured services.CardTransferRequest
	handler := newTestHandler(fakeTxRunner{}, stubMerchantStore{}, stubAccountStore{}, stubCustomerStore{}, stubCardStore{}, stubTransactionStore{}, stubLedgerService{
		depositFn: func(_ context.Context, req services.CardTransferRequest) (int64, error) {
			captured = req
			return 51, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/card/deposit", strings.NewReader(`{"cardId":12,"amount":500,"orderId":"ord-2"}`))
	rr := serveWithAuth(t, handler.CardDeposit, 7, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.MerchantID != 7 || captured.CardID != 12 || captured.Amount != 500 || captured.OrderID != "ord-2" {
		t.Fatalf("unexpected request passed to service: %#v", captured)
	}
}

func TestCardWithdrawUnknownCard(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubMerchantStore{}, stubAccountStore{}, stubCustomerStore{}, stubCardStore{}, stubTransactionStore{}, stubLedgerService{
		withdrawFn: func(context.Context, services.CardTransferRequest) (int64, error) {
			return 0, services.ErrCardNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/card/withdraw", strings.NewReader(`{"cardId":99,"amount":500,"orderId":"ord-3"}`))
	rr := serveWithAuth(t, handler.CardWithdraw, 7, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
