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

type productRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository creates a PostgreSQL product repository
func NewProductRepository(db *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, part_number, description, category, manufacturer,
	supplier_name, cost_price, sale_price, min_stock, active, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.PartNumber, product.Description,
		product.Category, product.Manufacturer, product.SupplierName,
		product.CostPrice, product.SalePrice, product.MinStock,
		product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = $2, part_number = $3, description = $4, category = $5,
			manufacturer = $6, supplier_name = $7, cost_price = $8,
			sale_price = $9, min_stock = $10, active = $11, updated_at = $12
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.PartNumber, product.Description,
		product.Category, product.Manufacturer, product.SupplierName,
		product.CostPrice, product.SalePrice, product.MinStock,
		product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error updating product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product not found: %s", product.ID)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, productID))
}

func (r *productRepository) FindByPartNumber(ctx context.Context, partNumber string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE LOWER(part_number) = LOWER($1) AND active = true`
	return r.scanOne(r.db.QueryRow(ctx, query, partNumber))
}

func (r *productRepository) FindByName(ctx context.Context, name string) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE '%' || $1 || '%' AND active = true
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("error finding products: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE active = true ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *productRepository) scanOne(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.PartNumber, &p.Description, &p.Category,
		&p.Manufacturer, &p.SupplierName, &p.CostPrice, &p.SalePrice,
		&p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) scanAll(rows pgx.Rows) ([]*domain.Product, error) {
	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.PartNumber, &p.Description, &p.Category,
			&p.Manufacturer, &p.SupplierName, &p.CostPrice, &p.SalePrice,
			&p.MinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading products: %w", err)
	}
	return products, nil
}
