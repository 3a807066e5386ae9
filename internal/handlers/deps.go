package handlers

import (
	"context"

	"cardapi/internal/models"
	"cardapi/internal/services"
	"cardapi/internal/store"
)

type MerchantStore interface {
	GetByID(ctx context.Context, merchantID int64) (models.Merchant, error)
}

type AccountStore interface {
	GetActive(ctx context.Context, accountID int64) (models.Account, error)
	Create(ctx context.Context, tx store.Getter, name, currency string, merchantID int64) (int64, error)
}

type CustomerStore interface {
	Create(ctx context.Context, tx store.Getter, input store.CustomerInput) (int64, error)
	GetByID(ctx context.Context, customerID int64) (models.Customer, error)
}

type CardStore interface {
	Create(ctx context.Context, tx store.Getter, token string, cardType models.CardType, customerID, accountID int64) (int64, error)
	GetByID(ctx context.Context, cardID int64) (models.Card, error)
}

type TransactionStore interface {
	ListByMerchant(ctx context.Context, merchantID int64, limit, offset int) ([]store.TransactionRow, error)
}

type LedgerService interface {
	Fund(ctx context.Context, req services.FundRequest) (int64, error)
	CardDeposit(ctx context.Context, req services.CardTransferRequest) (int64, error)
	CardWithdraw(ctx context.Context, req services.CardTransferRequest) (int64, error)
	BalanceOf(ctx context.Context, accountID int64) (int64, error)
}
