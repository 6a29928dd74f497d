package postgres

import (
	"testing"

	"github.com/deskhive/deskhive/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestLimitArg(t *testing.T) {
	t.Run("default filter binds its limit", func(t *testing.T) {
		f := &types.SubscriptionFilter{QueryFilter: types.NewDefaultQueryFilter()}
		assert.Equal(t, 50, limitArg(f))
	})

	t.Run("explicit limit is passed through", func(t *testing.T) {
		f := &types.PlanFilter{QueryFilter: &types.QueryFilter{Limit: lo.ToPtr(10)}}
		assert.Equal(t, 10, limitArg(f))
	})

	t.Run("no limit filter binds NULL", func(t *testing.T) {
		f := &types.SubscriptionFilter{QueryFilter: types.NewNoLimitQueryFilter()}
		assert.Nil(t, limitArg(f))
	})

	t.Run("bound filter without a limit binds NULL", func(t *testing.T) {
		// A request like ?offset=0 leaves Limit nil on the bound filter
		f := &types.SubscriptionFilter{QueryFilter: &types.QueryFilter{Offset: lo.ToPtr(0)}}
		assert.Nil(t, limitArg(f))
	})
}
