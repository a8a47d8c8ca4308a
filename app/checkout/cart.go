package checkout

import (
	"storefront/domain"

	"github.com/shopspring/decimal"
)

// Line is one product in the cart with its quantity.
type Line struct {
	Product  domain.Product
	Quantity int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in insertion order. Adding a product already in the cart
// increases its quantity. A Cart is not safe for concurrent use.
type Cart struct {
	lines []Line
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Add(product domain.Product, quantity int) {
	if quantity <= 0 {
		return
	}
	if i := c.index(product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return
	}
	c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
}

func (c *Cart) Remove(productID int64) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Items() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
