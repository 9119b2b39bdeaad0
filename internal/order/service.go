package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

var ErrInvalidStatusTransition = errors.New("invalid order status transition")

type Service interface {
	// CreateOrder inserts a pending order row with the given total. Items
	// are attached by AddItems in a separate, subsequent call.
	CreateOrder(ctx context.Context, userID uuid.UUID, total int64) (*Order, error)
	AddItems(ctx context.Context, orderID uuid.UUID, items []OrderItem) error
	// ConfirmPayment moves a pending order to processing and records the
	// payment reference reported by the widget callback.
	ConfirmPayment(ctx context.Context, orderID uuid.UUID, paymentID string) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, total int64) (*Order, error) {
	if userID == uuid.Nil {
		return nil, errors.New("service: order user id cannot be nil")
	}
	if total < 0 {
		return nil, fmt.Errorf("service: order total cannot be negative, got %d", total)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate order id: %w", err)
	}

	o := &Order{
		ID:     id,
		UserID: userID,
		Status: StatusPending,
		Total:  total,
		Items:  []OrderItem{},
	}

	if err := s.repo.Insert(ctx, o); err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Stringer("order_id", o.ID).Stringer("user_id", userID).Int64("total", total).Msg("service: order created")
	return o, nil
}

func (s *service) AddItems(ctx context.Context, orderID uuid.UUID, items []OrderItem) error {
	if len(items) == 0 {
		return errors.New("service: order must contain at least one item")
	}

	for i := range items {
		item := &items[i]
		if item.ProductID == uuid.Nil {
			return errors.New("service: product id in order item cannot be nil")
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("service: order item quantity for product %s must be greater than zero", item.ProductID)
		}
		if item.PriceAtTime < 0 {
			return fmt.Errorf("service: order item price for product %s cannot be negative", item.ProductID)
		}
	}

	if err := s.repo.InsertItems(ctx, orderID, items); err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to add order items")
		return fmt.Errorf("service: failed to add order items: %w", err)
	}

	return nil
}

func (s *service) ConfirmPayment(ctx context.Context, orderID uuid.UUID, paymentID string) error {
	if paymentID == "" {
		return errors.New("service: payment id cannot be empty")
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to get order for payment confirmation: %w", err)
	}

	if current.Status != StatusPending {
		log.Warn().
			Stringer("order_id", orderID).
			Stringer("current_status", current.Status).
			Msg("service: payment confirmation for non-pending order")
		return ErrInvalidStatusTransition
	}

	if err := s.repo.SetPayment(ctx, orderID, StatusProcessing, paymentID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to confirm payment")
		return fmt.Errorf("service: failed to confirm payment: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Str("payment_id", paymentID).Msg("service: payment confirmed, order processing")
	return nil
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Stringer("order_id", id).Msg("service: order not found")
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}

	return o, nil
}

func (s *service) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to fetch user orders")
		return nil, fmt.Errorf("service: failed to fetch user orders: %w", err)
	}

	return orders, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error {
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status == newStatus {
		log.Info().Stringer("order_id", orderID).Stringer("status", newStatus).Msg("service: order status already set")
		return nil
	}

	if !allowedTransitions[current.Status][newStatus] {
		log.Warn().
			Stringer("order_id", orderID).
			Stringer("current_status", current.Status).
			Stringer("new_status", newStatus).
			Msg("service: invalid status transition attempt")
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to update order status")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("old_status", current.Status).Stringer("new_status", newStatus).Msg("service: order status updated")
	return nil
}
