package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cardapi/internal/auth"
	"cardapi/internal/config"
	"cardapi/internal/middleware"
	"cardapi/internal/models"
	"cardapi/internal/services"
	"cardapi/internal/store"
	"cardapi/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubMerchantStore struct {
	getByIDFn func(ctx context.Context, merchantID int64) (models.Merchant, error)
}

func (s stubMerchantStore) GetByID(ctx context.Context, merchantID int64) (models.Merchant, error) {
	if s.getByIDFn == nil {
		return models.Merchant{}, nil
	}
	return s.getByIDFn(ctx, merchantID)
}

type stubAccountStore struct {
	getActiveFn func(ctx context.Context, accountID int64) (models.Account, error)
	createFn    func(ctx context.Context, tx store.Getter, name, currency string, merchantID int64) (int64, error)
}

func (s stubAccountStore) GetActive(ctx context.Context, accountID int64) (models.Account, error) {
	if s.getActiveFn == nil {
		return models.Account{}, nil
	}
	return s.getActiveFn(ctx, accountID)
}

func (s stubAccountStore) Create(ctx context.Context, tx store.Getter, name, currency string, merchantID int64) (int64, error) {
	if s.createFn == nil {
		return 1, nil
	}
	return s.createFn(ctx, tx, name, currency, merchantID)
}

type stubCustomerStore struct {
	createFn  func(ctx context.Context, tx store.Getter, input store.CustomerInput) (int64, error)
	getByIDFn func(ctx context.Context, customerID int64) (models.Customer, error)
}

func (s stubCustomerStore) Create(ctx context.Context, tx store.Getter, input store.CustomerInput) (int64, error) {
	if s.createFn == nil {
		return 1, nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubCustomerStore) GetByID(ctx context.Context, customerID int64) (models.Customer, error) {
	if s.getByIDFn == nil {
		return models.Customer{}, nil
	}
	return s.getByIDFn(ctx, customerID)
}

type stubCardStore struct {
	createFn  func(ctx context.Context, tx store.Getter, token string, cardType models.CardType, customerID, accountID int64) (int64, error)
	getByIDFn func(ctx context.Context, cardID int64) (models.Card, error)
}

func (s stubCardStore) Create(ctx context.Context, tx store.Getter, token string, cardType models.CardType, customerID, accountID int64) (int64, error) {
	if s.createFn == nil {
		return 1, nil
	}
	return s.createFn(ctx, tx, token, cardType, customerID, accountID)
}

func (s stubCardStore) GetByID(ctx context.Context, cardID int64) (models.Card, error) {
	if s.getByIDFn == nil {
		return models.Card{}, nil
	}
	return s.getByIDFn(ctx, cardID)
}

type stubTransactionStore struct {
	listByMerchantFn func(ctx context.Context, merchantID int64, limit, offset int) ([]store.TransactionRow, error)
}

func (s stubTransactionStore) ListByMerchant(ctx context.Context, merchantID int64, limit, offset int) ([]store.TransactionRow, error) {
	if s.listByMerchantFn == nil {
		return nil, nil
	}
	return s.listByMerchantFn(ctx, merchantID, limit, offset)
}

type stubLedgerService struct {
	fundFn      func(ctx context.Context, req services.FundRequest) (int64, error)
	depositFn   func(ctx context.Context, req services.CardTransferRequest) (int64, error)
	withdrawFn  func(ctx context.Context, req services.CardTransferRequest) (int64, error)
	balanceOfFn func(ctx context.Context, accountID int64) (int64, error)
}

func (s stubLedgerService) Fund(ctx context.Context, req services.FundRequest) (int64, error) {
	if s.fundFn == nil {
		return 1, nil
	}
	return s.fundFn(ctx, req)
}

func (s stubLedgerService) CardDeposit(ctx context.Context, req services.CardTransferRequest) (int64, error) {
	if s.depositFn == nil {
		return 1, nil
	}
	return s.depositFn(ctx, req)
}

func (s stubLedgerService) CardWithdraw(ctx context.Context, req services.CardTransferRequest) (int64, error) {
	if s.withdrawFn == nil {
		return 1, nil
	}
	return s.withdrawFn(ctx, req)
}

func (s stubLedgerService) BalanceOf(ctx context.Context, accountID int64) (int64, error) {
	if s.balanceOfFn == nil {
		return 0, nil
	}
	return s.balanceOfFn(ctx, accountID)
}

func newTestHandler(txRunner fakeTxRunner, merchants stubMerchantStore, accounts stubAccountStore, customers stubCustomerStore, cards stubCardStore, transactions stubTransactionStore, service stubLedgerService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
		CashAccountID:  1,
		CardAccountID:  2,
		FeeAccountID:   3,
	}
	return New(txRunner, cfg, merchants, accounts, customers, cards, transactions, service, websocket.NewHub())
}

func serveWithAuth(t *testing.T, handler http.HandlerFunc, merchantID int64, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", merchantID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}
