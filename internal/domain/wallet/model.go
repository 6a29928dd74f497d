package wallet

import (
	"github.com/deskhive/deskhive/internal/types"
	"github.com/shopspring/decimal"
)

// Wallet represents a customer's prepaid balance. The subscription engine
// only ever compares against the balance; mutations belong to an external
// wallet collaborator.
type Wallet struct {
	ID         string          `db:"id" json:"id"`
	CustomerID string          `db:"customer_id" json:"customer_id"`
	Currency   string          `db:"currency" json:"currency"`
	Balance    decimal.Decimal `db:"balance" json:"balance"`

	types.BaseModel
}

func (w *Wallet) TableName() string {
	return "wallets"
}

// CanCover reports whether the balance covers the given amount.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
