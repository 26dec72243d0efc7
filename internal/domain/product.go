package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as seen by a conversation. Prices are snapshots
// taken when the catalog was loaded.
type Product struct {
	ID        int64
	Name      string
	SellPrice decimal.Decimal
	CostPrice decimal.Decimal
}

func NewProduct(id int64, name string, sellPrice, costPrice decimal.Decimal) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("product id must be positive: %w", ErrValidation)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, fmt.Errorf("product name required: %w", ErrValidation)
	}
	if sellPrice.IsNegative() || costPrice.IsNegative() {
		return Product{}, fmt.Errorf("product prices must be >= 0: %w", ErrValidation)
	}

	return Product{ID: id, Name: name, SellPrice: sellPrice, CostPrice: costPrice}, nil
}

// FindProduct looks a product up by id in a loaded catalog snapshot.
func FindProduct(products []Product, id int64) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
