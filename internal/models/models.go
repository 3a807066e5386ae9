package models

import "time"

// TransactionType is a closed enumeration; the string value is the storage
// code written to the transactions table.
type TransactionType string

const (
	TypeFund         TransactionType = "fund"
	TypeCardDeposit  TransactionType = "card_deposit"
	TypeCardWithdraw TransactionType = "card_withdraw"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeFund, TypeCardDeposit, TypeCardWithdraw:
		return true
	}
	return false
}

type TransactionStatus string

const StatusCompleted TransactionStatus = "completed"

type Merchant struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	SecretHash string `db:"secret_hash" json:"-"`
}

type Account struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Active     bool      `db:"active" json:"active"`
	Currency   string    `db:"currency" json:"currency"`
	MerchantID int64     `db:"merchant_id" json:"merchant_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Customer struct {
	ID          int64     `db:"id" json:"id"`
	Phone       string    `db:"phone" json:"phone"`
	Email       string    `db:"email" json:"email"`
	Active      bool      `db:"active" json:"active"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	BirthDate   time.Time `db:"birth_date" json:"birth_date"`
	Address     string    `db:"address" json:"address"`
	Address2    string    `db:"address2" json:"address2,omitempty"`
	City        string    `db:"city" json:"city"`
	StateRegion string    `db:"state_region" json:"state_region"`
	Country     string    `db:"country" json:"country"`
	PostalCode  string    `db:"postal_code" json:"postal_code"`
	MerchantID  int64     `db:"merchant_id" json:"merchant_id"`
}

type CardType string

const CardVirtual CardType = "virtual"

type Card struct {
	ID         int64     `db:"id" json:"id"`
	Token      string    `db:"token" json:"token"`
	CardType   CardType  `db:"card_type" json:"card_type"`
	Created    time.Time `db:"created" json:"created"`
	CustomerID int64     `db:"customer_id" json:"customer_id"`
	AccountID  int64     `db:"account_id" json:"account_id"`
}

type Transaction struct {
	ID        int64             `db:"id" json:"id"`
	Type      TransactionType   `db:"type" json:"type"`
	Status    TransactionStatus `db:"status" json:"status"`
	OrderID   string            `db:"order_id" json:"order_id"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// TransactionItem rows are the sole source of truth for balances; they are
// inserted once and never updated or deleted.
type TransactionItem struct {
	ID            int64     `db:"id" json:"id"`
	Amount        int64     `db:"amount" json:"amount"`
	Created       time.Time `db:"created" json:"created"`
	TransactionID int64     `db:"trans_id" json:"transaction_id"`
	SrcAccountID  int64     `db:"src_acc_id" json:"src_account_id"`
	DestAccountID int64     `db:"dest_acc_id" json:"dest_account_id"`
}

type FeeRule struct {
	ID        int64           `db:"id" json:"id"`
	Rate      string          `db:"rate" json:"rate"`
	TransType TransactionType `db:"trans_type" json:"trans_type"`
	AccountID int64           `db:"acc_id" json:"account_id"`
}
