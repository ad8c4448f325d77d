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

type supplierRepository struct {
	db *pgxpool.Pool
}

// NewSupplierRepository creates a PostgreSQL supplier repository
func NewSupplierRepository(db *pgxpool.Pool) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

const supplierColumns = `id, name, phone, email, account_number, active, created_at, updated_at`

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	now := time.Now()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		supplier.ID, supplier.Name, supplier.Phone, supplier.Email,
		supplier.AccountNumber, supplier.Active, supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating supplier: %w", err)
	}
	return nil
}

func (r *supplierRepository) FindByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	var s domain.Supplier
	err := r.db.QueryRow(ctx, query, supplierID).Scan(
		&s.ID, &s.Name, &s.Phone, &s.Email, &s.AccountNumber,
		&s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding supplier: %w", err)
	}
	return &s, nil
}

func (r *supplierRepository) FindByName(ctx context.Context, name string) ([]*domain.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE name ILIKE '%' || $1 || '%' AND active = true
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("error finding suppliers: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *supplierRepository) FindAll(ctx context.Context) ([]*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE active = true ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing suppliers: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *supplierRepository) scanAll(rows pgx.Rows) ([]*domain.Supplier, error) {
	var suppliers []*domain.Supplier
	for rows.Next() {
		var s domain.Supplier
		err := rows.Scan(
			&s.ID, &s.Name, &s.Phone, &s.Email, &s.AccountNumber,
			&s.Active, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning supplier: %w", err)
		}
		suppliers = append(suppliers, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading suppliers: %w", err)
	}
	return suppliers, nil
}
