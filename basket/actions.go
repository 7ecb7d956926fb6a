package basket

// Action is a basket state transition. Reduce is the only place actions are
// interpreted.
type Action interface {
	apply(Basket) Basket
}

// AddItem adds one unit of Item. An item from a different restaurant replaces
// the whole basket.
type AddItem struct {
	Item           Item
	RestaurantID   uint
	RestaurantSlug string
}

// RemoveItem removes one unit of the item; the line disappears at zero.
type RemoveItem struct {
	ItemID uint
}

// UpdateQuantity sets the quantity directly; zero or less deletes the line.
type UpdateQuantity struct {
	ItemID   uint
	Quantity int
}

// Clear empties the basket.
type Clear struct{}

// Reduce returns the basket that results from applying a to b. b is not modified.
func Reduce(b Basket, a Action) Basket {
	if a == nil {
		return b.clone()
	}
	return a.apply(b.clone()).normalize()
}

func (a AddItem) apply(b Basket) Basket {
	if !b.Empty() && !b.ScopedTo(a.RestaurantID) {
		b = Basket{}
	}
	id, slug := a.RestaurantID, a.RestaurantSlug
	b.RestaurantID = &id
	b.RestaurantSlug = &slug

	if i := b.indexOf(a.Item.ID); i >= 0 {
		b.Items[i].Quantity++
		return b
	}
	item := a.Item
	item.Quantity = 1
	b.Items = append(b.Items, item)
	return b
}

func (a RemoveItem) apply(b Basket) Basket {
	i := b.indexOf(a.ItemID)
	if i < 0 {
		return b
	}
	if b.Items[i].Quantity <= 1 {
		b.Items = append(b.Items[:i], b.Items[i+1:]...)
		return b
	}
	b.Items[i].Quantity--
	return b
}

func (a UpdateQuantity) apply(b Basket) Basket {
	i := b.indexOf(a.ItemID)
	if i < 0 {
		return b
	}
	if a.Quantity <= 0 {
		b.Items = append(b.Items[:i], b.Items[i+1:]...)
		return b
	}
	b.Items[i].Quantity = a.Quantity
	return b
}

func (Clear) apply(Basket) Basket {
	return Basket{}
}
