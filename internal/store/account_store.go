package store

import (
	"context"

	"cardapi/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

// GetActive resolves an account that exists and has its active flag set.
// A missing and an inactive account are indistinguishable to callers: both
// come back as sql.ErrNoRows.
func (s *AccountStore) GetActive(ctx context.Context, accountID int64) (models.Account, error) {
	return s.GetActiveTx(ctx, s.db, accountID)
}

func (s *AccountStore) GetActiveTx(ctx context.Context, q Getter, accountID int64) (models.Account, error) {
	var row models.Account
	err := q.GetContext(ctx, &row, `
		SELECT id, name, active, currency, merchant_id, created_at
		FROM accounts
		WHERE id = $1 AND active = TRUE
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

// GetActiveForUpdate locks the account row for the rest of the enclosing
// transaction. The ledger takes this lock on the source account before it
// reads the balance, so the sufficiency check and the item inserts see a
// single consistent state.
func (s *AccountStore) GetActiveForUpdate(ctx context.Context, tx Getter, accountID int64) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, name, active, currency, merchant_id, created_at
		FROM accounts
		WHERE id = $1 AND active = TRUE
		FOR UPDATE
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) Create(ctx context.Context, tx Getter, name, currency string, merchantID int64) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO accounts (name, active, currency, merchant_id)
		VALUES ($1, TRUE, $2, $3)
		RETURNING id
	`, name, currency, merchantID)
	return id, err
}
