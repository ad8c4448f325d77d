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

type stockRepository struct {
	db *pgxpool.Pool
}

// NewStockRepository creates a PostgreSQL stock-level repository
func NewStockRepository(db *pgxpool.Pool) repository.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) LevelsForProduct(ctx context.Context, productID string) ([]*domain.StockLevel, error) {
	query := `
		SELECT id, product_id, location, quantity, updated_at
		FROM stock_levels
		WHERE product_id = $1 AND quantity > 0
		ORDER BY location
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("error reading stock levels: %w", err)
	}
	defer rows.Close()

	var levels []*domain.StockLevel
	for rows.Next() {
		var level domain.StockLevel
		if err := rows.Scan(&level.ID, &level.ProductID, &level.Location, &level.Quantity, &level.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning stock level: %w", err)
		}
		levels = append(levels, &level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading stock levels: %w", err)
	}
	return levels, nil
}

func (r *stockRepository) LevelAt(ctx context.Context, productID, location string) (*domain.StockLevel, error) {
	query := `
		SELECT id, product_id, location, quantity, updated_at
		FROM stock_levels
		WHERE product_id = $1 AND LOWER(location) = LOWER($2)
	`
	var level domain.StockLevel
	err := r.db.QueryRow(ctx, query, productID, location).
		Scan(&level.ID, &level.ProductID, &level.Location, &level.Quantity, &level.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading stock level: %w", err)
	}
	return &level, nil
}

func (r *stockRepository) Adjust(ctx context.Context, productID, location string, delta int) error {
	query := `
		INSERT INTO stock_levels (id, product_id, location, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, location)
		DO UPDATE SET quantity = stock_levels.quantity + $4, updated_at = $5
	`
	_, err := r.db.Exec(ctx, query, uuid.New().String(), productID, location, delta, time.Now())
	if err != nil {
		return fmt.Errorf("error adjusting stock: %w", err)
	}
	return nil
}
