// Package checkout turns the basket and a contact form into a placed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"click-collect/basket"
	"click-collect/models"
	"click-collect/orderclient"

	"go.uber.org/zap"
)

var (
	ErrMissingFields = errors.New("Please fill in name, phone, and pickup time")
	ErrEmptyBasket   = errors.New("Your basket is empty")
	ErrInvalidPickup = errors.New("Please choose one of the offered pickup times")
)

const genericFailure = "Failed to place order. Please try again."

// Form is the checkout contact form. Email and SpecialInstructions are optional.
type Form struct {
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       string
	PickupTime          time.Time
	SpecialInstructions string
}

// Validate checks the required fields locally.
func (f Form) Validate() error {
	if strings.TrimSpace(f.CustomerName) == "" ||
		strings.TrimSpace(f.CustomerPhone) == "" ||
		f.PickupTime.IsZero() {
		return ErrMissingFields
	}
	return nil
}

// ValidatePickup reports ErrInvalidPickup unless t is one of PickupSlots(now).
func ValidatePickup(t, now time.Time) error {
	for _, slot := range PickupSlots(now) {
		if slot.Equal(t) {
			return nil
		}
	}
	return ErrInvalidPickup
}

// OrderCreator is the part of the order API the submitter needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
}

// Submitter places the order held in a basket store.
type Submitter struct {
	basket *basket.Store
	orders OrderCreator
	logger *zap.SugaredLogger
	now    func() time.Time
}

type SubmitterOption func(*Submitter)

// WithClock sets the clock the offered pickup slots are computed from.
func WithClock(now func() time.Time) SubmitterOption {
	return func(s *Submitter) { s.now = now }
}

func NewSubmitter(store *basket.Store, orders OrderCreator, logger *zap.SugaredLogger, opts ...SubmitterOption) *Submitter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Submitter{basket: store, orders: orders, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildRequest converts a basket and form into the order API request.
func BuildRequest(b basket.Basket, f Form) (models.CreateOrderRequest, error) {
	if err := f.Validate(); err != nil {
		return models.CreateOrderRequest{}, err
	}
	if b.Empty() || b.RestaurantID == nil {
		return models.CreateOrderRequest{}, ErrEmptyBasket
	}

	lines := make([]models.OrderLine, len(b.Items))
	for i, it := range b.Items {
		lines[i] = models.OrderLine{MenuItemID: it.ID, Quantity: it.Quantity}
	}

	return models.CreateOrderRequest{
		RestaurantID:        *b.RestaurantID,
		CustomerName:        strings.TrimSpace(f.CustomerName),
		CustomerPhone:       NormalizePhone(f.CustomerPhone),
		CustomerEmail:       strings.TrimSpace(f.CustomerEmail),
		PickupTime:          f.PickupTime,
		SpecialInstructions: strings.TrimSpace(f.SpecialInstructions),
		Items:               lines,
	}, nil
}

// Submit validates the form and places the order. The pickup time must be one
// of the slots offered at the submitter's current time. On success the basket
// is cleared and the created order is returned; on any failure the basket is
// left as it was so the customer can retry.
func (s *Submitter) Submit(ctx context.Context, f Form) (*models.Order, error) {
	snapshot := s.basket.Snapshot()

	req, err := BuildRequest(snapshot, f)
	if err != nil {
		return nil, err
	}
	if err := ValidatePickup(f.PickupTime, s.now()); err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Warnw("order submission failed",
			"restaurant_id", req.RestaurantID,
			"items", len(req.Items),
			"error", err,
		)
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.basket.Clear()
	s.logger.Infow("order placed",
		"order_number", order.OrderNumber,
		"restaurant_id", req.RestaurantID,
		"total_items", snapshot.TotalItems(),
	)
	return order, nil
}

// TrackingPath is where the customer is sent after a successful submission.
func TrackingPath(order *models.Order) string {
	return "/order/" + url.PathEscape(order.OrderNumber)
}

// ErrorMessage is the single line shown to the customer for a Submit error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range []error{ErrMissingFields, ErrEmptyBasket, ErrInvalidPickup} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	var apiErr *orderclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericFailure
}

