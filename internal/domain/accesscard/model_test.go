package accesscard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	validUntil := time.Now().UTC().AddDate(0, 0, 30)

	card := New(ctx, "subs_1", "cust_1", validUntil)

	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "subs_1", card.SubscriptionID)
	assert.Equal(t, "cust_1", card.CustomerID)
	assert.Equal(t, validUntil, card.ValidUntil)
	assert.True(t, card.Active)
	assert.Contains(t, card.QRPayload, card.ID)
	assert.Contains(t, card.QRPayload, "subs_1")
}

func TestNewCardNumber(t *testing.T) {
	ctx := context.Background()
	validUntil := time.Now().UTC().AddDate(0, 0, 30)

	card := New(ctx, "subs_1", "cust_1", validUntil)

	// The printed number is a short human-readable code, not the card id
	assert.NotEmpty(t, card.CardNumber)
	assert.NotEqual(t, card.ID, card.CardNumber)
	assert.True(t, strings.HasPrefix(card.CardNumber, "DH"))
	assert.LessOrEqual(t, len(card.CardNumber), 12)
	assert.Equal(t, strings.ToUpper(card.CardNumber), card.CardNumber)

	seen := map[string]bool{card.CardNumber: true}
	for i := 0; i < 50; i++ {
		c := New(ctx, "subs_1", "cust_1", validUntil)
		assert.False(t, seen[c.CardNumber], "card numbers must not repeat")
		seen[c.CardNumber] = true
	}
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	card := New(ctx, "subs_1", "cust_1", now.AddDate(0, 0, 30))
	card.Deactivate(now)

	assert.False(t, card.Active)
	assert.Equal(t, now, card.UpdatedAt)
}
