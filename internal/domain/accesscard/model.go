package accesscard

import (
	"context"
	"fmt"
	"time"

	"github.com/deskhive/deskhive/internal/types"
)

// AccessCard is a QR-coded credential granting physical access, tied to an
// active subscription. The QR payload is composed here; rendering the image
// is an external concern.
type AccessCard struct {
	// ID is the unique identifier for the card
	ID string `db:"id" json:"id"`

	// SubscriptionID links the card to its owning subscription
	SubscriptionID string `db:"subscription_id" json:"subscription_id"`

	// CustomerID is the card holder
	CustomerID string `db:"customer_id" json:"customer_id"`

	// CardNumber is the short human-readable number printed on the card
	CardNumber string `db:"card_number" json:"card_number"`

	// ValidUntil is the card validity date, aligned with the subscription end date
	ValidUntil time.Time `db:"valid_until" json:"valid_until"`

	// QRPayload is the string encoded into the card's QR code
	QRPayload string `db:"qr_payload" json:"qr_payload"`

	// Active marks the card as usable
	Active bool `db:"active" json:"active"`

	types.BaseModel
}

func (c *AccessCard) TableName() string {
	return "access_cards"
}

// New issues a card for an active subscription.
func New(ctx context.Context, subscriptionID, customerID string, validUntil time.Time) *AccessCard {
	id := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCESS_CARD)
	return &AccessCard{
		ID:             id,
		SubscriptionID: subscriptionID,
		CustomerID:     customerID,
		CardNumber:     types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_CARD_NUMBER),
		ValidUntil:     validUntil,
		QRPayload:      fmt.Sprintf("deskhive:%s:%s:%d", id, subscriptionID, validUntil.Unix()),
		Active:         true,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// Deactivate marks the card unusable, e.g. when its subscription is
// cancelled or superseded.
func (c *AccessCard) Deactivate(now time.Time) {
	c.Active = false
	c.UpdatedAt = now
}
