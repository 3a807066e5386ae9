package store

import (
	"context"

	"cardapi/internal/models"
)

type CardStore struct {
	db DB
}

func NewCardStore(db DB) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) Create(ctx context.Context, tx Getter, token string, cardType models.CardType, customerID, accountID int64) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO cards (token, card_type, created, customer_id, account_id)
		VALUES ($1, $2, NOW(), $3, $4)
		RETURNING id
	`, token, string(cardType), customerID, accountID)
	return id, err
}

// GetByID reads a card row. Card rows are immutable, so a read outside the
// transfer transaction cannot go stale.
func (s *CardStore) GetByID(ctx context.Context, cardID int64) (models.Card, error) {
	var row models.Card
	err := s.db.GetContext(ctx, &row, `
		SELECT id, token, card_type, created, customer_id, account_id
		FROM cards
		WHERE id = $1
	`, cardID)
	if err != nil {
		return models.Card{}, err
	}
	return row, nil
}
