package entity

import "time"

// Supplier proveedor de materiales.
type Supplier struct {
	ID        string
	Code      string
	Name      string
	Contact   string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
}
