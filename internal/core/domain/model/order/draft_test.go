package order_test

import (
	"testing"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft(t *testing.T) {
	loc, _ := kernel.NewLocation(-0.18, -78.47)
	delivery, _ := kernel.NewPlace("Av. Amazonas", &loc)
	textOnly, _ := kernel.NewPlace("Av. Amazonas", nil)
	pickup, _ := kernel.NewPlace("Bodega", nil)
	requester := kernel.IDFromInt(3)

	t.Run("should create a valid draft", func(t *testing.T) {
		d, err := order.NewDraft(requester, "  Two boxes ", pickup, delivery)

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.Equal(t, "Two boxes", d.Description())
		assert.True(t, d.RequesterID().IsEqual(requester))
		assert.True(t, d.Delivery().IsEqual(delivery))
		assert.True(t, d.Pickup().IsEqual(pickup))
	})

	t.Run("should require delivery coordinates", func(t *testing.T) {
		d, err := order.NewDraft(requester, "Two boxes", pickup, textOnly)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, d)
		assert.Contains(t, err.Error(), "delivery coordinates")
	})

	t.Run("should report all missing values", func(t *testing.T) {
		_, err := order.NewDraft(kernel.ID{}, " ", pickup, textOnly)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "requester id")
		assert.Contains(t, err.Error(), "description")
		assert.Contains(t, err.Error(), "delivery coordinates")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var d order.Draft
		assert.ErrorIs(t, d.Validate(), order.ErrDraftIsNotConstructed)
	})
}
