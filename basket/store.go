package basket

import "sync"

// Store owns the single in-progress basket. Every change goes through
// Dispatch, so mutations are applied one at a time in call order.
type Store struct {
	mu      sync.Mutex
	state   Basket
	onEvent func(Action, Basket)
}

// NewStore returns a store holding the empty basket.
func NewStore() *Store {
	return &Store{}
}

// OnChange registers fn to be called after every dispatch with the action and
// the resulting basket. It replaces any previous callback.
func (s *Store) OnChange(fn func(Action, Basket)) {
	s.mu.Lock()
	s.onEvent = fn
	s.mu.Unlock()
}

// Dispatch applies a and returns a copy of the new state.
func (s *Store) Dispatch(a Action) Basket {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state.clone()
	fn := s.onEvent
	s.mu.Unlock()

	if fn != nil {
		fn(a, snapshot.clone())
	}
	return snapshot
}

// Snapshot returns a copy of the current basket.
func (s *Store) Snapshot() Basket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) AddItem(item Item, restaurantID uint, restaurantSlug string) Basket {
	return s.Dispatch(AddItem{Item: item, RestaurantID: restaurantID, RestaurantSlug: restaurantSlug})
}

func (s *Store) RemoveItem(itemID uint) Basket {
	return s.Dispatch(RemoveItem{ItemID: itemID})
}

func (s *Store) UpdateQuantity(itemID uint, quantity int) Basket {
	return s.Dispatch(UpdateQuantity{ItemID: itemID, Quantity: quantity})
}

func (s *Store) Clear() Basket {
	return s.Dispatch(Clear{})
}
