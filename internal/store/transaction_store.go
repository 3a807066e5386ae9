package store

import (
	"context"

	"cardapi/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Getter, transType models.TransactionType, status models.TransactionStatus, orderID string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO transactions (type, status, order_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, string(transType), string(status), orderID)
	return id, err
}

// InsertItem appends one transfer leg. Items are never updated or deleted.
func (s *TransactionStore) InsertItem(ctx context.Context, tx Execer, amount, transID, srcAccountID, destAccountID int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transaction_items (amount, created, trans_id, src_acc_id, dest_acc_id)
		VALUES ($1, NOW(), $2, $3, $4)
	`, amount, transID, srcAccountID, destAccountID)
	return err
}

// BalanceOf derives the account balance from the item log: credits into the
// account minus debits out of it, with empty aggregates counting as zero.
// Nothing is cached; every call recomputes from what is currently committed.
func (s *TransactionStore) BalanceOf(ctx context.Context, accountID int64) (int64, error) {
	return s.BalanceOfTx(ctx, s.db, accountID)
}

// BalanceOfTx is BalanceOf evaluated inside the caller's transaction, so a
// sufficiency check sees exactly the state the transaction will commit
// against.
func (s *TransactionStore) BalanceOfTx(ctx context.Context, q Getter, accountID int64) (int64, error) {
	var balance int64
	err := q.GetContext(ctx, &balance, `
		SELECT COALESCE((SELECT SUM(amount) FROM transaction_items WHERE dest_acc_id = $1), 0)
		     - COALESCE((SELECT SUM(amount) FROM transaction_items WHERE src_acc_id = $1), 0)
	`, accountID)
	return balance, err
}

type TransactionRow struct {
	ID            int64  `db:"id"`
	Type          string `db:"type"`
	Status        string `db:"status"`
	OrderID       string `db:"order_id"`
	CreatedAt     any    `db:"created_at"`
	Amount        int64  `db:"amount"`
	SrcAccountID  int64  `db:"src_acc_id"`
	DestAccountID int64  `db:"dest_acc_id"`
}

func (s *TransactionStore) ListByMerchant(ctx context.Context, merchantID int64, limit, offset int) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.type, t.status, t.order_id, t.created_at,
		       i.amount, i.src_acc_id, i.dest_acc_id
		FROM transactions t
		JOIN transaction_items i ON i.trans_id = t.id
		WHERE i.src_acc_id IN (SELECT id FROM accounts WHERE merchant_id = $1)
		   OR i.dest_acc_id IN (SELECT id FROM accounts WHERE merchant_id = $1)
		ORDER BY t.created_at DESC, i.id
		LIMIT $2 OFFSET $3
	`, merchantID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
