package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"cardapi/internal/db"
	"cardapi/internal/models"
	"cardapi/internal/money"
	"cardapi/internal/store"
	"cardapi/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound     = errors.New("account does not exist")
	ErrCardNotFound        = errors.New("card does not exist")
	ErrCurrencyMismatch    = errors.New("source account currency doesn't match destination account currency")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnauthorizedAccount = errors.New("account does not belong to merchant")
)

// StoreError is returned for persistence failures. It carries an opaque
// diagnostic code instead of the driver's error text; the full error only
// goes to the server log.
type StoreError struct {
	Code string
}

func (e *StoreError) Error() string {
	return "storage failure (code " + e.Code + ")"
}

// SystemAccounts names the reserved ledger accounts every deployment must
// seed: the cash pool transfers are funded from, the card network settlement
// pool, and the account fees accumulate on.
type SystemAccounts struct {
	Cash int64
	Card int64
	Fee  int64
}

type LedgerService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	fees         FeeStore
	transactions TransactionStore
	cards        CardStore
	audit        AuditStore
	hub          BalanceHub
	system       SystemAccounts
}

type AccountStore interface {
	GetActiveTx(ctx context.Context, q store.Getter, accountID int64) (models.Account, error)
	GetActiveForUpdate(ctx context.Context, tx store.Getter, accountID int64) (models.Account, error)
}

type FeeStore interface {
	RateFor(ctx context.Context, q store.Getter, transType models.TransactionType, accountID int64) (decimal.Decimal, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Getter, transType models.TransactionType, status models.TransactionStatus, orderID string) (int64, error)
	InsertItem(ctx context.Context, tx store.Execer, amount, transID, srcAccountID, destAccountID int64) error
	BalanceOf(ctx context.Context, accountID int64) (int64, error)
	BalanceOfTx(ctx context.Context, q store.Getter, accountID int64) (int64, error)
}

type CardStore interface {
	GetByID(ctx context.Context, cardID int64) (models.Card, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, id string, actorMerchantID int64, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(merchantID int64, update websocket.BalanceUpdate)
}

func NewLedgerService(txRunner db.TxRunner, accounts AccountStore, fees FeeStore, transactions TransactionStore, cards CardStore, audit AuditStore, hub BalanceHub, system SystemAccounts) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		accounts:     accounts,
		fees:         fees,
		transactions: transactions,
		cards:        cards,
		audit:        audit,
		hub:          hub,
		system:       system,
	}
}

type FundRequest struct {
	MerchantID int64
	AccountID  int64
	Amount     int64
	OrderID    string
}

// Fund moves amount from the cash settlement pool into the merchant's
// account. The pool is treated as having unlimited funds: no sufficiency
// check, no fee.
func (s *LedgerService) Fund(ctx context.Context, req FundRequest) (int64, error) {
	if req.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	var transID int64
	var dest models.Account
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		dest, err = s.resolveActive(ctx, tx, req.AccountID)
		if err != nil {
			return err
		}
		if dest.MerchantID != req.MerchantID {
			return ErrUnauthorizedAccount
		}
		src, err := s.resolveActive(ctx, tx, s.system.Cash)
		if err != nil {
			return err
		}
		transID, err = s.createPrincipal(ctx, tx, src, dest, req.Amount, models.TypeFund, req.OrderID)
		if err != nil {
			return err
		}
		balanceAfter, err = s.transactions.BalanceOfTx(ctx, tx, dest.ID)
		if err != nil {
			return err
		}
		return s.logTransfer(ctx, tx, req.MerchantID, models.TypeFund, transID, req.OrderID, req.Amount)
	})
	if err != nil {
		return 0, mapLedgerError("fund", err)
	}
	s.broadcast(dest, balanceAfter)
	return transID, nil
}

type CardTransferRequest struct {
	MerchantID int64
	CardID     int64
	Amount     int64
	OrderID    string
}

// CardDeposit moves funds from the card's account into the card settlement
// pool; any configured fee is absorbed by the settlement side.
func (s *LedgerService) CardDeposit(ctx context.Context, req CardTransferRequest) (int64, error) {
	return s.cardTransfer(ctx, req, models.TypeCardDeposit, s.depositTransfer)
}

// CardWithdraw moves funds from the card's account into the card settlement
// pool; the card's own account pays any configured fee.
func (s *LedgerService) CardWithdraw(ctx context.Context, req CardTransferRequest) (int64, error) {
	return s.cardTransfer(ctx, req, models.TypeCardWithdraw, s.withdrawTransfer)
}

type transferFn func(ctx context.Context, tx *sqlx.Tx, merchantID, srcID, dstID, feeAccID, amount int64, transType models.TransactionType, orderID string) (int64, models.Account, error)

func (s *LedgerService) cardTransfer(ctx context.Context, req CardTransferRequest, transType models.TransactionType, transfer transferFn) (int64, error) {
	if req.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	card, err := s.cards.GetByID(ctx, req.CardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCardNotFound
		}
		return 0, mapLedgerError("card lookup", err)
	}
	var transID int64
	var src models.Account
	var balanceAfter int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		transID, src, err = transfer(ctx, tx, req.MerchantID, card.AccountID, s.system.Card, s.system.Fee, req.Amount, transType, req.OrderID)
		if err != nil {
			return err
		}
		balanceAfter, err = s.transactions.BalanceOfTx(ctx, tx, src.ID)
		if err != nil {
			return err
		}
		return s.logTransfer(ctx, tx, req.MerchantID, transType, transID, req.OrderID, req.Amount)
	})
	if err != nil {
		return 0, mapLedgerError(string(transType), err)
	}
	s.broadcast(src, balanceAfter)
	return transID, nil
}

// BalanceOf derives the account's balance from committed transaction items.
// Exposed for diagnostics; transfers use the in-transaction variant.
func (s *LedgerService) BalanceOf(ctx context.Context, accountID int64) (int64, error) {
	balance, err := s.transactions.BalanceOf(ctx, accountID)
	if err != nil {
		return 0, mapLedgerError("balance", err)
	}
	return balance, nil
}

// depositTransfer charges the fee to the destination side of the transfer:
// the settlement pool absorbs it, so the sufficiency check covers only the
// principal amount.
func (s *LedgerService) depositTransfer(ctx context.Context, tx *sqlx.Tx, merchantID, srcID, dstID, feeAccID, amount int64, transType models.TransactionType, orderID string) (int64, models.Account, error) {
	src, dst, fee, err := s.beginTransfer(ctx, tx, merchantID, srcID, dstID, amount, transType)
	if err != nil {
		return 0, models.Account{}, err
	}
	balance, err := s.transactions.BalanceOfTx(ctx, tx, src.ID)
	if err != nil {
		return 0, models.Account{}, err
	}
	if balance-amount < 0 {
		return 0, models.Account{}, ErrInsufficientFunds
	}
	transID, err := s.createPrincipal(ctx, tx, src, dst, amount, transType, orderID)
	if err != nil {
		return 0, models.Account{}, err
	}
	if fee > 0 {
		if err := s.transactions.InsertItem(ctx, tx, fee, transID, dst.ID, feeAccID); err != nil {
			return 0, models.Account{}, err
		}
	}
	return transID, src, nil
}

// withdrawTransfer charges the fee to the source side: the card account must
// cover principal plus fee, and the fee item debits the card account.
func (s *LedgerService) withdrawTransfer(ctx context.Context, tx *sqlx.Tx, merchantID, srcID, dstID, feeAccID, amount int64, transType models.TransactionType, orderID string) (int64, models.Account, error) {
	src, dst, fee, err := s.beginTransfer(ctx, tx, merchantID, srcID, dstID, amount, transType)
	if err != nil {
		return 0, models.Account{}, err
	}
	balance, err := s.transactions.BalanceOfTx(ctx, tx, src.ID)
	if err != nil {
		return 0, models.Account{}, err
	}
	if balance-amount-fee < 0 {
		return 0, models.Account{}, ErrInsufficientFunds
	}
	transID, err := s.createPrincipal(ctx, tx, src, dst, amount, transType, orderID)
	if err != nil {
		return 0, models.Account{}, err
	}
	if fee > 0 {
		if err := s.transactions.InsertItem(ctx, tx, fee, transID, src.ID, feeAccID); err != nil {
			return 0, models.Account{}, err
		}
	}
	return transID, src, nil
}

// beginTransfer locks the source account, resolves the destination and the
// fee, and verifies ownership. Locking the source row before the balance
// read closes the check-then-act window between two concurrent transfers
// against the same account.
func (s *LedgerService) beginTransfer(ctx context.Context, tx *sqlx.Tx, merchantID, srcID, dstID, amount int64, transType models.TransactionType) (models.Account, models.Account, int64, error) {
	src, err := s.accounts.GetActiveForUpdate(ctx, tx, srcID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, models.Account{}, 0, ErrAccountNotFound
		}
		return models.Account{}, models.Account{}, 0, err
	}
	if src.MerchantID != merchantID {
		return models.Account{}, models.Account{}, 0, ErrUnauthorizedAccount
	}
	dst, err := s.resolveActive(ctx, tx, dstID)
	if err != nil {
		return models.Account{}, models.Account{}, 0, err
	}
	rate, err := s.fees.RateFor(ctx, tx, transType, dst.ID)
	if err != nil {
		return models.Account{}, models.Account{}, 0, err
	}
	return src, dst, feeAmount(rate, amount), nil
}

// createPrincipal writes the transaction header and the principal item.
// Source and destination must share a currency; this holds for every amount,
// zero included.
func (s *LedgerService) createPrincipal(ctx context.Context, tx *sqlx.Tx, src, dst models.Account, amount int64, transType models.TransactionType, orderID string) (int64, error) {
	if src.Currency != dst.Currency {
		return 0, ErrCurrencyMismatch
	}
	transID, err := s.transactions.Create(ctx, tx, transType, models.StatusCompleted, orderID)
	if err != nil {
		return 0, err
	}
	if err := s.transactions.InsertItem(ctx, tx, amount, transID, src.ID, dst.ID); err != nil {
		return 0, err
	}
	return transID, nil
}

func (s *LedgerService) resolveActive(ctx context.Context, tx *sqlx.Tx, accountID int64) (models.Account, error) {
	account, err := s.accounts.GetActiveTx(ctx, tx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	return account, err
}

func (s *LedgerService) logTransfer(ctx context.Context, tx *sqlx.Tx, merchantID int64, transType models.TransactionType, transID int64, orderID string, amount int64) error {
	data, _ := json.Marshal(map[string]any{
		"order_id": orderID,
		"amount":   amount,
	})
	return s.audit.Log(ctx, tx, uuid.NewString(), merchantID, string(transType), "transaction", strconv.FormatInt(transID, 10), string(data))
}

func (s *LedgerService) broadcast(account models.Account, balance int64) {
	s.hub.BroadcastBalance(account.MerchantID, websocket.BalanceUpdate{
		AccountID: account.ID,
		Balance:   money.FormatMinor(balance),
		Currency:  account.Currency,
	})
}

// feeAmount truncates toward zero; a fee never rounds up.
func feeAmount(rate decimal.Decimal, amount int64) int64 {
	if rate.IsZero() {
		return 0
	}
	return rate.Mul(decimal.NewFromInt(amount)).IntPart()
}

func mapLedgerError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrAccountNotFound, ErrCardNotFound, ErrCurrencyMismatch,
		ErrInsufficientFunds, ErrInvalidAmount, ErrUnauthorizedAccount,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	code := "internal"
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code = string(pqErr.Code)
	}
	log.Printf("ledger %s: store error: %v", op, err)
	return &StoreError{Code: code}
}
