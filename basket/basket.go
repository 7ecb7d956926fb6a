// Package basket holds the customer's in-progress order. A basket is scoped to
// a single restaurant and lives in memory for the session only.
package basket

import (
	"github.com/shopspring/decimal"
)

// Item is one basket line, unique by ID.
type Item struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Basket is the basket state. RestaurantID and RestaurantSlug are nil exactly
// when Items is empty.
type Basket struct {
	RestaurantID   *uint   `json:"restaurant_id"`
	RestaurantSlug *string `json:"restaurant_slug"`
	Items          []Item  `json:"items"`
}

// Empty reports whether the basket has no items.
func (b Basket) Empty() bool {
	return len(b.Items) == 0
}

// TotalItems is the sum of all quantities.
func (b Basket) TotalItems() int {
	n := 0
	for _, it := range b.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the sum of price * quantity, rounded to cents.
func (b Basket) Subtotal() float64 {
	total := decimal.Zero
	for _, it := range b.Items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2).InexactFloat64()
}

// Quantity returns the quantity of itemID, or 0 when absent.
func (b Basket) Quantity(itemID uint) int {
	if i := b.indexOf(itemID); i >= 0 {
		return b.Items[i].Quantity
	}
	return 0
}

// ScopedTo reports whether the basket belongs to restaurantID.
func (b Basket) ScopedTo(restaurantID uint) bool {
	return b.RestaurantID != nil && *b.RestaurantID == restaurantID
}

func (b Basket) indexOf(itemID uint) int {
	for i, it := range b.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// clone deep-copies b so callers never share backing arrays or scope pointers.
func (b Basket) clone() Basket {
	out := Basket{}
	if b.RestaurantID != nil {
		id := *b.RestaurantID
		out.RestaurantID = &id
	}
	if b.RestaurantSlug != nil {
		slug := *b.RestaurantSlug
		out.RestaurantSlug = &slug
	}
	if len(b.Items) > 0 {
		out.Items = make([]Item, len(b.Items))
		copy(out.Items, b.Items)
	}
	return out
}

// normalize enforces the empty-scope invariant.
func (b Basket) normalize() Basket {
	if len(b.Items) == 0 {
		return Basket{}
	}
	return b
}
