package stock_test

import (
	"errors"
	"testing"

	"go-stockdash/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStockIn(t *testing.T) {
	p := product(15, 10)

	t.Run("success adds quantity", func(t *testing.T) {
		newStock, err := stock.ValidateStockIn(p, 10, "Acme Supplies", 700)
		require.NoError(t, err)
		assert.Equal(t, 25, newStock)
		assert.Equal(t, 15, p.Stock) // snapshot untouched, caller persists
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := stock.ValidateStockIn(p, 0, "Acme Supplies", 700)
		assert.ErrorIs(t, err, stock.ErrInvalidQuantity)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := stock.ValidateStockIn(p, -5, "Acme Supplies", 700)
		assert.ErrorIs(t, err, stock.ErrInvalidQuantity)
	})

	t.Run("rejects non-positive purchase price", func(t *testing.T) {
		_, err := stock.ValidateStockIn(p, 10, "Acme Supplies", 0)
		assert.ErrorIs(t, err, stock.ErrInvalidPrice)
	})

	t.Run("rejects whitespace-only supplier", func(t *testing.T) {
		_, err := stock.ValidateStockIn(p, 10, "   ", 700)
		assert.ErrorIs(t, err, stock.ErrMissingSupplier)
	})

	t.Run("quantity check wins over price check", func(t *testing.T) {
		// Checks run in order, failing fast on the first violation.
		_, err := stock.ValidateStockIn(p, 0, "", -1)
		assert.ErrorIs(t, err, stock.ErrInvalidQuantity)
	})
}

func TestValidateStockOut(t *testing.T) {
	t.Run("concrete scenario", func(t *testing.T) {
		p := product(15, 10)

		_, err := stock.ValidateStockOut(p, 20, stock.ReasonSale)
		require.ErrorIs(t, err, stock.ErrInsufficientStock)

		var insufficient *stock.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, 15, insufficient.Available)
		assert.Equal(t, 20, insufficient.Requested)
		assert.Equal(t, 15, p.Stock) // rejected request leaves the snapshot alone

		newStock, err := stock.ValidateStockOut(p, 10, stock.ReasonSale)
		require.NoError(t, err)
		assert.Equal(t, 5, newStock)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := stock.ValidateStockOut(product(15, 10), 0, stock.ReasonSale)
		assert.ErrorIs(t, err, stock.ErrInvalidQuantity)
	})

	t.Run("exact available quantity is allowed", func(t *testing.T) {
		newStock, err := stock.ValidateStockOut(product(7, 10), 7, stock.ReasonDamaged)
		require.NoError(t, err)
		assert.Equal(t, 0, newStock)
	})

	t.Run("empty reason fails even with valid quantity", func(t *testing.T) {
		_, err := stock.ValidateStockOut(product(15, 10), 5, stock.OutReason(""))
		assert.ErrorIs(t, err, stock.ErrMissingReason)
	})

	t.Run("unknown reason fails", func(t *testing.T) {
		_, err := stock.ValidateStockOut(product(15, 10), 5, stock.OutReason("SHRINKAGE"))
		assert.ErrorIs(t, err, stock.ErrMissingReason)
	})

	t.Run("all enumerated reasons pass", func(t *testing.T) {
		reasons := []stock.OutReason{
			stock.ReasonSale,
			stock.ReasonDamaged,
			stock.ReasonInternalUse,
			stock.ReasonReturnToSupplier,
			stock.ReasonOther,
		}
		for _, r := range reasons {
			_, err := stock.ValidateStockOut(product(15, 10), 1, r)
			assert.NoError(t, err, "reason %s", r)
		}
	})
}

func TestStockInThenEqualStockOutIsNoOp(t *testing.T) {
	p := product(12, 10)

	afterIn, err := stock.ValidateStockIn(p, 8, "Acme Supplies", 500)
	require.NoError(t, err)

	applied := *p
	applied.Stock = afterIn

	afterOut, err := stock.ValidateStockOut(&applied, 8, stock.ReasonSale)
	require.NoError(t, err)
	assert.Equal(t, p.Stock, afterOut)
}
