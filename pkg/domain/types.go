package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Job status values
const (
	JobStatusOpen      = "open"
	JobStatusScheduled = "scheduled"
	JobStatusDone      = "done"
	JobStatusCancelled = "cancelled"
)

// User represents a system user (engineer, office staff, admin)
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes and stores the given plain-text password
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares a plain-text password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// Product represents a catalogue item (a part or material)
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PartNumber   string    `json:"part_number"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Manufacturer string    `json:"manufacturer"`
	SupplierName string    `json:"supplier_name"`
	CostPrice    float64   `json:"cost_price"`
	SalePrice    float64   `json:"sale_price"`
	MinStock     int       `json:"min_stock"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockLevel represents the quantity of a product held at one location
type StockLevel struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Location  string    `json:"location"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Customer represents a customer of the field-service business
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Job represents a piece of field work booked for a customer
type Job struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customer_id"`
	Customer    *Customer  `json:"customer,omitempty"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Site        string     `json:"site"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Supplier represents a parts supplier
type Supplier struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	AccountNumber string    `json:"account_number"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
