package proration

import (
	"context"
	"testing"
	"time"

	ierr "github.com/deskhive/deskhive/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemainingValue(t *testing.T) {
	calc := NewCalculator()
	ctx := context.Background()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	t.Run("mid period", func(t *testing.T) {
		// 20 of 30 days remaining on a 10000 subscription
		now := start.AddDate(0, 0, 10)
		remaining, err := calc.RemainingValue(ctx, ProrationParams{
			StartDate:     start,
			EndDate:       end,
			TotalAmount:   decimal.NewFromInt(10000),
			ProrationDate: now,
		})
		require.NoError(t, err)
		assert.Equal(t, "6666.67", remaining.Round(2).String())
	})

	t.Run("fractional day", func(t *testing.T) {
		now := start.Add(15*24*time.Hour + 12*time.Hour)
		remaining, err := calc.RemainingValue(ctx, ProrationParams{
			StartDate:     start,
			EndDate:       end,
			TotalAmount:   decimal.NewFromInt(3000),
			ProrationDate: now,
		})
		require.NoError(t, err)
		// 14.5 of 30 days remain
		assert.Equal(t, "1450", remaining.Round(2).String())
	})

	t.Run("not yet started", func(t *testing.T) {
		now := start.AddDate(0, 0, -5)
		remaining, err := calc.RemainingValue(ctx, ProrationParams{
			StartDate:     start,
			EndDate:       end,
			TotalAmount:   decimal.NewFromInt(10000),
			ProrationDate: now,
		})
		require.NoError(t, err)
		assert.True(t, remaining.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("already ended", func(t *testing.T) {
		now := end.AddDate(0, 0, 1)
		remaining, err := calc.RemainingValue(ctx, ProrationParams{
			StartDate:     start,
			EndDate:       end,
			TotalAmount:   decimal.NewFromInt(10000),
			ProrationDate: now,
		})
		require.NoError(t, err)
		assert.True(t, remaining.IsZero())
	})

	t.Run("at period end", func(t *testing.T) {
		remaining, err := calc.RemainingValue(ctx, ProrationParams{
			StartDate:     start,
			EndDate:       end,
			TotalAmount:   decimal.NewFromInt(10000),
			ProrationDate: end,
		})
		require.NoError(t, err)
		assert.True(t, remaining.IsZero())
	})

	t.Run("monotonically non increasing", func(t *testing.T) {
		prev := decimal.NewFromInt(10001)
		for day := 0; day <= 30; day++ {
			now := start.AddDate(0, 0, day)
			remaining, err := calc.RemainingValue(ctx, ProrationParams{
				StartDate:     start,
				EndDate:       end,
				TotalAmount:   decimal.NewFromInt(10000),
				ProrationDate: now,
			})
			require.NoError(t, err)
			assert.True(t, remaining.LessThanOrEqual(prev),
				"remaining value increased on day %d", day)
			prev = remaining
		}
	})
}

func TestCalculate(t *testing.T) {
	calc := NewCalculator()
	ctx := context.Background()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	t.Run("net due after credit", func(t *testing.T) {
		now := start.AddDate(0, 0, 10)
		result, err := calc.Calculate(ctx, ProrationParams{
			StartDate:        start,
			EndDate:          end,
			TotalAmount:      decimal.NewFromInt(10000),
			NewPlanAmountDue: decimal.NewFromInt(24000),
			ProrationDate:    now,
		})
		require.NoError(t, err)
		assert.Equal(t, "6666.67", result.RemainingValue.Round(2).String())
		assert.Equal(t, "17333.33", result.NetAmountDue.Round(2).String())
	})

	t.Run("credit exceeds new plan amount", func(t *testing.T) {
		// Downgrade right after start: nearly the full 10000 remains,
		// far more than the 500 target plan.
		now := start.Add(time.Hour)
		result, err := calc.Calculate(ctx, ProrationParams{
			StartDate:        start,
			EndDate:          end,
			TotalAmount:      decimal.NewFromInt(10000),
			NewPlanAmountDue: decimal.NewFromInt(500),
			ProrationDate:    now,
		})
		require.NoError(t, err)
		assert.True(t, result.NetAmountDue.IsZero(), "net due must clamp at zero")
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := calc.Calculate(ctx, ProrationParams{
			StartDate:        end,
			EndDate:          start,
			TotalAmount:      decimal.NewFromInt(10000),
			NewPlanAmountDue: decimal.NewFromInt(500),
			ProrationDate:    start,
		})
		require.Error(t, err)
		assert.True(t, ierr.IsInvariantViolation(err))
	})

	t.Run("missing proration date", func(t *testing.T) {
		_, err := calc.Calculate(ctx, ProrationParams{
			StartDate:        start,
			EndDate:          end,
			TotalAmount:      decimal.NewFromInt(10000),
			NewPlanAmountDue: decimal.NewFromInt(500),
		})
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := calc.Calculate(ctx, ProrationParams{
			StartDate:        start,
			EndDate:          end,
			TotalAmount:      decimal.NewFromInt(-1),
			NewPlanAmountDue: decimal.NewFromInt(500),
			ProrationDate:    start,
		})
		require.Error(t, err)
	})
}
