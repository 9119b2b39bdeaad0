// Package checkout drives order placement: precondition checks, tax, order
// and item creation, payment hand-off and the payment callback. Steps run
// strictly in sequence because later writes reference earlier ones.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"fashionstore/internal/auth"
	"fashionstore/internal/cart"
	"fashionstore/internal/events"
	"fashionstore/internal/order"
	"fashionstore/internal/payment"
	"fashionstore/internal/profile"
)

// GSTRate is the flat tax rate applied to the cart subtotal.
const GSTRate = 0.12

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrProfileIncomplete = errors.New("delivery address is incomplete")
)

// Totals computes the tax (rounded half-up on the subtotal, not per line)
// and the final total in minor units.
func Totals(subtotal int64) (tax, total int64) {
	tax = int64(math.Round(float64(subtotal) * GSTRate))
	return tax, subtotal + tax
}

type OrderEvents interface {
	OrderPlaced(ctx context.Context, event events.OrderPlaced)
}

type Service interface {
	// Begin validates the checkout preconditions, persists the pending
	// order with its items, and returns the widget options the client
	// needs to open the hosted payment UI.
	Begin(ctx context.Context, session auth.Session, c *cart.Cart) (*payment.Options, error)
	// Confirm handles the widget's success callback: the order moves to
	// processing, the payment reference is stored and the cart is cleared.
	Confirm(ctx context.Context, session auth.Session, orderID uuid.UUID, paymentID string, c *cart.Cart) error
}

type service struct {
	profiles profile.Service
	orders   order.Service
	gateway  payment.Gateway
	events   OrderEvents
}

func NewService(profiles profile.Service, orders order.Service, gateway payment.Gateway, orderEvents OrderEvents) Service {
	return &service{
		profiles: profiles,
		orders:   orders,
		gateway:  gateway,
		events:   orderEvents,
	}
}

func (s *service) Begin(ctx context.Context, session auth.Session, c *cart.Cart) (*payment.Options, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Preconditions, in order, before any write.
	p, err := s.profiles.GetProfile(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, ErrProfileIncomplete
		}
		return nil, fmt.Errorf("checkout: failed to fetch profile: %w", err)
	}
	if !p.HasAddress() {
		log.Warn().Stringer("user_id", session.UserID).Msg("checkout: delivery address incomplete")
		return nil, ErrProfileIncomplete
	}

	if err := s.gateway.Available(ctx); err != nil {
		return nil, err
	}

	subtotal := c.Subtotal()
	_, total := Totals(subtotal)

	o, err := s.orders.CreateOrder(ctx, session.UserID, total)
	if err != nil {
		return nil, fmt.Errorf("checkout: failed to create order: %w", err)
	}

	items := make([]order.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, order.OrderItem{
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			PriceAtTime: line.Price,
			Size:        line.Size,
		})
	}

	if err := s.orders.AddItems(ctx, o.ID, items); err != nil {
		// The pending order created above is not rolled back; it stays
		// orphaned until an out-of-scope cleanup handles it.
		log.Error().Err(err).Stringer("order_id", o.ID).Msg("checkout: failed to add order items, pending order orphaned")
		return nil, fmt.Errorf("checkout: failed to add order items: %w", err)
	}

	opts := s.gateway.Checkout(total, o.ID.String(), session.Email)
	log.Info().Stringer("order_id", o.ID).Int64("subtotal", subtotal).Int64("total", total).Msg("checkout: payment launched")
	return &opts, nil
}

func (s *service) Confirm(ctx context.Context, session auth.Session, orderID uuid.UUID, paymentID string, c *cart.Cart) error {
	o, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.UserID != session.UserID {
		log.Warn().Stringer("order_id", orderID).Stringer("user_id", session.UserID).Msg("checkout: confirmation for foreign order")
		return order.ErrOrderNotFound
	}

	if err := s.orders.ConfirmPayment(ctx, orderID, paymentID); err != nil {
		// The order stays pending and the cart is kept so the shopper
		// can retry.
		return err
	}

	c.Clear()

	if s.events != nil {
		s.events.OrderPlaced(ctx, events.OrderPlaced{
			OrderID:   orderID,
			UserID:    session.UserID,
			Total:     o.Total,
			PaymentID: paymentID,
			PlacedAt:  o.CreatedAt,
		})
	}

	return nil
}
