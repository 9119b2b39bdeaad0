package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	// StatusPending is set when the order row is created at checkout, before
	// the payment widget reports anything.
	StatusPending Status = "pending"
	// StatusProcessing is set once the payment callback confirms payment.
	StatusProcessing Status = "processing"
	// StatusCompleted is set by fulfilment, outside this service.
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

type OrderItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	// ProductName is resolved from the catalog for display; not stored on
	// the item row.
	ProductName string    `json:"product_name,omitempty" db:"-"`
	Quantity    int       `json:"quantity" db:"quantity"`
	PriceAtTime int64     `json:"price_at_time" db:"price_at_time"`
	Size        string    `json:"size,omitempty" db:"size"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	UserID    uuid.UUID   `json:"user_id" db:"user_id"`
	Status    Status      `json:"status" db:"status"`
	Total     int64       `json:"total" db:"total"`
	PaymentID *string     `json:"payment_id,omitempty" db:"payment_id"`
	Items     []OrderItem `json:"items" db:"-"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}
