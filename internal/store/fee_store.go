package store

import (
	"context"
	"database/sql"
	"errors"

	"cardapi/internal/models"

	"github.com/shopspring/decimal"
)

type FeeStore struct {
	db DB
}

func NewFeeStore(db DB) *FeeStore {
	return &FeeStore{db: db}
}

// RateFor returns the fee rate configured for a (transaction type, account)
// pair. A missing rule is not an error, it means no fee applies.
func (s *FeeStore) RateFor(ctx context.Context, q Getter, transType models.TransactionType, accountID int64) (decimal.Decimal, error) {
	var raw string
	err := q.GetContext(ctx, &raw, `
		SELECT rate
		FROM transaction_fees
		WHERE trans_type = $1 AND acc_id = $2
	`, string(transType), accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}
