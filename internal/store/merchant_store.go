package store

import (
	"context"

	"cardapi/internal/models"
)

type MerchantStore struct {
	db DB
}

func NewMerchantStore(db DB) *MerchantStore {
	return &MerchantStore{db: db}
}

func (s *MerchantStore) GetByID(ctx context.Context, merchantID int64) (models.Merchant, error) {
	var row models.Merchant
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, secret_hash
		FROM merchants
		WHERE id = $1
	`, merchantID)
	if err != nil {
		return models.Merchant{}, err
	}
	return row, nil
}
