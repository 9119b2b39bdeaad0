package profile

import (
	"time"

	"github.com/gofrs/uuid"
)

// Profile is the per-user account record. Checkout requires the four
// delivery address fields to be populated.
type Profile struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Pincode   string    `json:"pincode" db:"pincode"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasAddress reports whether all delivery address fields are filled in.
func (p *Profile) HasAddress() bool {
	return p.Address != "" && p.City != "" && p.State != "" && p.Pincode != ""
}
