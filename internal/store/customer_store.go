package store

import (
	"context"
	"time"

	"cardapi/internal/models"
)

type CustomerStore struct {
	db DB
}

type CustomerInput struct {
	Phone       string
	Email       string
	FirstName   string
	LastName    string
	BirthDate   time.Time
	Address     string
	Address2    string
	City        string
	StateRegion string
	Country     string
	PostalCode  string
	MerchantID  int64
}

func NewCustomerStore(db DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) Create(ctx context.Context, tx Getter, input CustomerInput) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO customers (phone, email, active, first_name, last_name, birth_date,
		                       address, address2, city, state_region, country, postal_code, merchant_id)
		VALUES ($1, $2, TRUE, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, input.Phone, input.Email, input.FirstName, input.LastName, input.BirthDate,
		input.Address, input.Address2, input.City, input.StateRegion, input.Country,
		input.PostalCode, input.MerchantID)
	return id, err
}

func (s *CustomerStore) GetByID(ctx context.Context, customerID int64) (models.Customer, error) {
	var row models.Customer
	err := s.db.GetContext(ctx, &row, `
		SELECT id, phone, email, active, first_name, last_name, birth_date,
		       address, address2, city, state_region, country, postal_code, merchant_id
		FROM customers
		WHERE id = $1
	`, customerID)
	if err != nil {
		return models.Customer{}, err
	}
	return row, nil
}
