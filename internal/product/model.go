package product

import (
	"time"

	"github.com/gofrs/uuid"
)

type Category string

const (
	CategoryMen         Category = "men"
	CategoryWomen       Category = "women"
	CategoryAccessories Category = "accessories"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) Valid() bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryAccessories:
		return true
	}
	return false
}

// Product is a catalog entry. Price is stored in minor currency units
// (paise); the admin form accepts major units and converts on parse.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         int64     `json:"price" db:"price"`
	ImageURL      string    `json:"image_url" db:"image_url"`
	ProductImages []string  `json:"product_images" db:"product_images"`
	Category      Category  `json:"category" db:"category"`
	Stock         int       `json:"stock" db:"stock"`
	Sizes         []string  `json:"sizes" db:"sizes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Images returns the gallery for the detail view, falling back to the
// primary image when no gallery was uploaded.
func (p *Product) Images() []string {
	if len(p.ProductImages) > 0 {
		return p.ProductImages
	}
	return []string{p.ImageURL}
}

var defaultSizes = []string{"S", "M", "L", "XL"}

// SizeOptions returns the selectable sizes, defaulting to the standard
// apparel range when the product has none configured.
func (p *Product) SizeOptions() []string {
	if len(p.Sizes) > 0 {
		return p.Sizes
	}
	return defaultSizes
}
