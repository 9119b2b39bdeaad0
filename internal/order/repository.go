package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository exposes the order row and the item rows as separate writes.
// Checkout issues them sequentially and does not roll the order back when
// the item insert fails; an orphaned pending order is the documented outcome.
type Repository interface {
	Insert(ctx context.Context, o *Order) error
	InsertItems(ctx context.Context, orderID uuid.UUID, items []OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	SetPayment(ctx context.Context, id uuid.UUID, status Status, paymentID string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, o *Order) error {
	query := `
		INSERT INTO orders (id, user_id, status, total, payment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		o.ID,
		o.UserID,
		string(o.Status),
		o.Total,
		o.PaymentID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	return nil
}

func (r *postgresRepository) InsertItems(ctx context.Context, orderID uuid.UUID, items []OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_time, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i := range items {
		item := &items[i]

		itemID, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate order item id: %w", err)
		}
		item.ID = itemID
		item.OrderID = orderID
		item.CreatedAt = time.Now().UTC()

		_, err = r.db.Exec(ctx, query,
			item.ID,
			orderID,
			item.ProductID,
			item.Quantity,
			item.PriceAtTime,
			item.Size,
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", orderID, err)
		}
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `
		SELECT id, user_id, status, total, payment_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.Total,
		&o.PaymentID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	items, err := r.itemsForOrders(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	if o.Items == nil {
		o.Items = []OrderItem{}
	}

	return &o, nil
}

func (r *postgresRepository) SetPayment(ctx context.Context, id uuid.UUID, status Status, paymentID string) error {
	query := `
		UPDATE orders
		SET status = $1, payment_id = $2, updated_at = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, string(status), paymentID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("repository: failed to set payment for order %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update status for order %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	query := `
		SELECT id, user_id, status, total, payment_id, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []uuid.UUID

	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Status,
			&o.Total,
			&o.PaymentID,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for user %s: %w", userID, err)
		}
		o.Items = []OrderItem{}
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders for user %s: %w", userID, err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	itemsByOrder, err := r.itemsForOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for orderID, items := range itemsByOrder {
		if o, ok := ordersMap[orderID]; ok {
			o.Items = items
		}
	}

	result := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *ordersMap[id])
	}

	return result, nil
}

// itemsForOrders loads the items of the given orders, joining product names
// for display. Items referencing a deleted product keep an empty name.
func (r *postgresRepository) itemsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''),
		       oi.quantity, oi.price_at_time, oi.size, oi.created_at
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[uuid.UUID][]OrderItem)
	for rows.Next() {
		var item OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.PriceAtTime,
			&item.Size,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return itemsByOrder, nil
}
