package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmcastle/fieldops/pkg/domain"
	"github.com/rmcastle/fieldops/pkg/repository"
)

type customerRepository struct {
	db *pgxpool.Pool
}

// NewCustomerRepository creates a PostgreSQL customer repository
func NewCustomerRepository(db *pgxpool.Pool) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, phone, email, address, notes, active, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		customer.ID, customer.Name, customer.Phone, customer.Email,
		customer.Address, customer.Notes, customer.Active,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	customer.UpdatedAt = time.Now()

	query := `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, address = $5, notes = $6,
			active = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		customer.ID, customer.Name, customer.Phone, customer.Email,
		customer.Address, customer.Notes, customer.Active, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error updating customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer not found: %s", customer.ID)
	}
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	var c domain.Customer
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding customer: %w", err)
	}
	return &c, nil
}

func (r *customerRepository) FindByName(ctx context.Context, name string) ([]*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name ILIKE '%' || $1 || '%' AND active = true
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("error finding customers: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *customerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE active = true ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *customerRepository) scanAll(rows pgx.Rows) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	for rows.Next() {
		var c domain.Customer
		err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes,
			&c.Active, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning customer: %w", err)
		}
		customers = append(customers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading customers: %w", err)
	}
	return customers, nil
}
