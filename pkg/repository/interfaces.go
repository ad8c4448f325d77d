package repository

import (
	"context"

	"github.com/rmcastle/fieldops/pkg/domain"
)

// UserRepository defines data access for users
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, userID string) (*domain.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProductRepository defines data access for catalogue items
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *domain.Product) error

	// Update updates an existing product
	Update(ctx context.Context, product *domain.Product) error

	// FindByID finds a product by ID
	FindByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindByPartNumber finds a product by its part number
	FindByPartNumber(ctx context.Context, partNumber string) (*domain.Product, error)

	// FindByName finds products by name (may return multiple)
	FindByName(ctx context.Context, name string) ([]*domain.Product, error)

	// FindAll returns all products
	FindAll(ctx context.Context) ([]*domain.Product, error)
}

// StockRepository defines data access for per-location stock levels
type StockRepository interface {
	// LevelsForProduct returns all stock levels held for a product
	LevelsForProduct(ctx context.Context, productID string) ([]*domain.StockLevel, error)

	// LevelAt returns the stock level for a product at one location,
	// or nil when the product is not held there
	LevelAt(ctx context.Context, productID, location string) (*domain.StockLevel, error)

	// Adjust changes the quantity at a location by delta, creating the
	// level row when it does not exist yet
	Adjust(ctx context.Context, productID, location string, delta int) error
}

// CustomerRepository defines data access for customers
type CustomerRepository interface {
	// Create creates a new customer
	Create(ctx context.Context, customer *domain.Customer) error

	// Update updates an existing customer
	Update(ctx context.Context, customer *domain.Customer) error

	// FindByID finds a customer by ID
	FindByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// FindByName finds customers by name (may return multiple)
	FindByName(ctx context.Context, name string) ([]*domain.Customer, error)

	// FindAll returns all customers
	FindAll(ctx context.Context) ([]*domain.Customer, error)
}

// JobRepository defines data access for jobs
type JobRepository interface {
	// Create creates a new job
	Create(ctx context.Context, job *domain.Job) error

	// Update updates an existing job
	Update(ctx context.Context, job *domain.Job) error

	// FindByID finds a job by ID
	FindByID(ctx context.Context, jobID string) (*domain.Job, error)

	// FindByStatus finds jobs with the given status
	FindByStatus(ctx context.Context, status string) ([]*domain.Job, error)

	// FindByCustomer finds jobs booked for a customer
	FindByCustomer(ctx context.Context, customerID string) ([]*domain.Job, error)

	// FindAll returns all jobs
	FindAll(ctx context.Context) ([]*domain.Job, error)
}

// SupplierRepository defines data access for suppliers
type SupplierRepository interface {
	// Create creates a new supplier
	Create(ctx context.Context, supplier *domain.Supplier) error

	// FindByID finds a supplier by ID
	FindByID(ctx context.Context, supplierID string) (*domain.Supplier, error)

	// FindByName finds suppliers by name (may return multiple)
	FindByName(ctx context.Context, name string) ([]*domain.Supplier, error)

	// FindAll returns all suppliers
	FindAll(ctx context.Context) ([]*domain.Supplier, error)
}
