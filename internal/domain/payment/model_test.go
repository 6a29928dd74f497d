package payment

import (
	"context"
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedule(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("full payment is a single row", func(t *testing.T) {
		schedule := NewSchedule(ctx, "subs_1", "usd", types.PaymentTypeFull,
			decimal.NewFromInt(24000), decimal.Zero, 0, start)

		require.Len(t, schedule, 1)
		p := schedule[0]
		assert.Equal(t, "subs_1", p.SubscriptionID)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(24000)))
		assert.Equal(t, start, p.DueDate)
		assert.Equal(t, types.PaymentStatusPending, p.PaymentStatus)
		assert.Equal(t, 0, p.InstallmentSequence)
	})

	t.Run("installments are monthly rows", func(t *testing.T) {
		schedule := NewSchedule(ctx, "subs_1", "usd", types.PaymentTypeInstallment,
			decimal.NewFromInt(2000), decimal.NewFromInt(2000), 12, start)

		require.Len(t, schedule, 12)
		for i, p := range schedule {
			assert.Equal(t, i+1, p.InstallmentSequence)
			assert.Equal(t, start.AddDate(0, i, 0), p.DueDate)
			assert.True(t, p.Amount.Equal(decimal.NewFromInt(2000)))
			assert.Equal(t, types.PaymentStatusPending, p.PaymentStatus)
		}
	})

	t.Run("first installment carries the prorated amount", func(t *testing.T) {
		schedule := NewSchedule(ctx, "subs_1", "usd", types.PaymentTypeInstallment,
			decimal.NewFromFloat(1333.33), decimal.NewFromInt(2000), 3, start)

		require.Len(t, schedule, 3)
		assert.True(t, schedule[0].Amount.Equal(decimal.NewFromFloat(1333.33)))
		assert.True(t, schedule[1].Amount.Equal(decimal.NewFromInt(2000)))
		assert.True(t, schedule[2].Amount.Equal(decimal.NewFromInt(2000)))
	})
}

func TestMarkPaid(t *testing.T) {
	now := time.Now().UTC()
	p := &Payment{PaymentStatus: types.PaymentStatusPending}

	p.MarkPaid(now)
	assert.Equal(t, types.PaymentStatusPaid, p.PaymentStatus)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, now, *p.PaidAt)
}

func TestMarkOverdue(t *testing.T) {
	now := time.Now().UTC()
	p := &Payment{PaymentStatus: types.PaymentStatusPending}

	p.MarkOverdue(now)
	assert.Equal(t, types.PaymentStatusOverdue, p.PaymentStatus)
	assert.Nil(t, p.PaidAt)
}
