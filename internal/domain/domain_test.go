package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	price := decimal.RequireFromString("2.50")

	p, err := NewProduct(3, "  Widget ", price, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)

	tests := []struct {
		name string
		id   int64
		pn   string
		sell decimal.Decimal
	}{
		{"zero id", 0, "Widget", price},
		{"blank name", 1, "   ", price},
		{"negative price", 1, "Widget", decimal.NewFromInt(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.id, tt.pn, tt.sell, decimal.Zero)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLocations(t *testing.T) {
	ls := ParseLocations([]string{" Omega", "Genuez", "", "Omega"})
	assert.Equal(t, Locations{"Omega", "Genuez"}, ls)

	l, err := ls.Parse(" Genuez ")
	require.NoError(t, err)
	assert.Equal(t, Location("Genuez"), l)

	_, err = ls.Parse("omega")
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, ls.Contains("4Seasons"))
	assert.True(t, DefaultLocations.Contains("4Seasons"))
}

func TestErrEmptyCartIsValidation(t *testing.T) {
	assert.ErrorIs(t, ErrEmptyCart, ErrValidation)
}
