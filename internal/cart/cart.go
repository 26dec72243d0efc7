package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/orderbot/internal/domain"
)

// Line is one product in the cart. UnitPrice is the sell price captured when
// the product first entered the cart.
type Line struct {
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines selected in one conversation. Quantities are always
// positive: a line that reaches zero is removed.
type Cart struct {
	lines map[int64]*Line
	order []int64
}

func New() *Cart {
	return &Cart{lines: make(map[int64]*Line)}
}

func (c *Cart) SetQuantity(p domain.Product, qty int) error {
	if qty < 0 {
		return fmt.Errorf("quantity must be >= 0: %w", domain.ErrValidation)
	}
	if qty == 0 {
		c.remove(p.ID)
		return nil
	}

	if line, ok := c.lines[p.ID]; ok {
		line.Quantity = qty
		return nil
	}

	c.lines[p.ID] = &Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.SellPrice,
		Quantity:    qty,
	}
	c.order = append(c.order, p.ID)
	return nil
}

func (c *Cart) Increment(p domain.Product) {
	_ = c.SetQuantity(p, c.Quantity(p.ID)+1)
}

func (c *Cart) Decrement(productID int64) {
	line, ok := c.lines[productID]
	if !ok {
		return
	}
	line.Quantity--
	if line.Quantity <= 0 {
		c.remove(productID)
	}
}

func (c *Cart) Quantity(productID int64) int {
	if line, ok := c.lines[productID]; ok {
		return line.Quantity
	}
	return 0
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns copies of the lines in the order products were first added.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

func (c *Cart) remove(productID int64) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
