package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/orderbot/internal/domain"
)

func product(t *testing.T, id int64, name, price string) domain.Product {
	t.Helper()
	p, err := domain.NewProduct(id, name, decimal.RequireFromString(price), decimal.Zero)
	require.NoError(t, err)
	return p
}

func TestCart_SetQuantity(t *testing.T) {
	t.Parallel()

	widget := product(t, 1, "Widget", "10.00")
	c := New()

	require.NoError(t, c.SetQuantity(widget, 3))
	assert.Equal(t, 3, c.Quantity(widget.ID))
	assert.True(t, decimal.RequireFromString("30").Equal(c.Total()))
	assert.False(t, c.IsEmpty())

	require.NoError(t, c.SetQuantity(widget, 0))
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_SetQuantity_Negative(t *testing.T) {
	t.Parallel()

	c := New()
	err := c.SetQuantity(product(t, 1, "Widget", "1"), -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, c.IsEmpty())
}

func TestCart_KeepsPriceSnapshot(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, c.SetQuantity(product(t, 1, "Widget", "10.00"), 1))

	repriced := product(t, 1, "Widget", "99.00")
	require.NoError(t, c.SetQuantity(repriced, 2))
	c.Increment(repriced)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "10.00", lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "30.00", c.Total().StringFixed(2))
}

func TestCart_DecrementRemovesLine(t *testing.T) {
	t.Parallel()

	widget := product(t, 1, "Widget", "10.00")
	c := New()
	c.Increment(widget)
	c.Decrement(widget.ID)

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Lines())

	c.Decrement(widget.ID)
	assert.Equal(t, 0, c.Quantity(widget.ID))
}

func TestCart_LinesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	a := product(t, 3, "Apple", "1")
	b := product(t, 1, "Banana", "2")
	c := New()
	c.Increment(a)
	c.Increment(b)
	c.Increment(a)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(3), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[1].ProductID)
}

func TestCart_RandomAdjustments(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		product(t, 1, "Widget", "10.00"),
		product(t, 2, "Gadget", "2.50"),
		product(t, 3, "Gizmo", "0.10"),
	}
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		c := New()
		for step := 0; step < 200; step++ {
			p := products[rng.Intn(len(products))]
			if rng.Intn(2) == 0 {
				c.Increment(p)
			} else {
				c.Decrement(p.ID)
			}

			want := decimal.Zero
			for _, line := range c.Lines() {
				require.Positive(t, line.Quantity)
				want = want.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			}
			require.True(t, want.Equal(c.Total()), "round %d step %d", round, step)
			require.Equal(t, c.Len() == 0, c.IsEmpty())
		}
	}
}
