package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartLineItem is one product in the cart. Display fields and the unit
// price are copied from the product when it is added and never refreshed.
type CartLineItem struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Image      string          `json:"image"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	StockAtAdd int             `json:"stockAtAdd"` // Informational only
}

// NewCartLineItem snapshots product into a line item of the given quantity.
func NewCartLineItem(product Product, quantity int) CartLineItem {
	return CartLineItem{
		ProductID:  product.ID,
		Name:       product.Name,
		UnitPrice:  product.Price,
		Image:      product.Image,
		Category:   product.Category,
		Quantity:   quantity,
		StockAtAdd: product.Stock,
	}
}

// Valid reports whether the line can exist in a cart: a product ID, a
// non-negative price and a positive quantity.
func (i CartLineItem) Valid() bool {
	return i.ProductID != "" && !i.UnitPrice.IsNegative() && i.Quantity >= 1
}

// LineTotal is Quantity × UnitPrice.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds line items keyed by product ID in insertion order.
// Add does no validation; rules live in the cart service.
type Cart struct {
	items []CartLineItem
	index map[string]int
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// NewCartFromItems builds a cart from stored items in order. Invalid lines
// are skipped before merging, so a bad duplicate cannot cancel out a good
// one. Later duplicates of a product ID are merged into the first
// occurrence.
func NewCartFromItems(items []CartLineItem) *Cart {
	c := NewCart()
	for _, item := range items {
		if !item.Valid() {
			continue
		}
		c.Add(item)
	}
	return c
}

// Add appends item, or sums its quantity into the existing line for the
// same product.
func (c *Cart) Add(item CartLineItem) {
	if i, ok := c.index[item.ProductID]; ok {
		c.items[i].Quantity += item.Quantity
		return
	}
	c.index[item.ProductID] = len(c.items)
	c.items = append(c.items, item)
}

// Remove deletes the line for productID and reports whether one existed.
func (c *Cart) Remove(productID string) bool {
	i, ok := c.index[productID]
	if !ok {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ProductID] = j
	}
	return true
}

// SetQuantity overwrites the quantity of an existing line.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	i, ok := c.index[productID]
	if !ok {
		return false
	}
	c.items[i].Quantity = quantity
	return true
}

// Get returns the line for productID.
func (c *Cart) Get(productID string) (CartLineItem, bool) {
	i, ok := c.index[productID]
	if !ok {
		return CartLineItem{}, false
	}
	return c.items[i], true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
	c.index = make(map[string]int)
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []CartLineItem {
	out := make([]CartLineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of distinct products.
func (c *Cart) Len() int {
	return len(c.items)
}

// TotalQuantity is the sum of all line quantities.
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Subtotal is recomputed from the lines on every call.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Clone returns a deep copy that shares nothing with c.
func (c *Cart) Clone() *Cart {
	clone := &Cart{
		items: c.Items(),
		index: make(map[string]int, len(c.index)),
	}
	for k, v := range c.index {
		clone.index[k] = v
	}
	return clone
}

type cartJSON struct {
	Items []CartLineItem `json:"items"`
}

// MarshalJSON encodes the cart as {"items": [...]} preserving order.
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{Items: c.Items()})
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw cartJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = *NewCartFromItems(raw.Items)
	return nil
}
