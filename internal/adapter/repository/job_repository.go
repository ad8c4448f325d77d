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

type jobRepository struct {
	db *pgxpool.Pool
}

// NewJobRepository creates a PostgreSQL job repository
func NewJobRepository(db *pgxpool.Pool) repository.JobRepository {
	return &jobRepository{db: db}
}

// jobs are always read joined to their customer so spoken references
// ("the Hartley job") can match on the customer's name
const jobSelect = `
	SELECT j.id, j.customer_id, j.description, j.status, j.priority, j.site,
		j.scheduled_at, j.created_at, j.updated_at,
		c.id, c.name, c.phone, c.email, c.address, c.notes, c.active,
		c.created_at, c.updated_at
	FROM jobs j
	JOIN customers c ON c.id = j.customer_id
`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}

	query := `
		INSERT INTO jobs (id, customer_id, description, status, priority, site,
			scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.CustomerID, job.Description, job.Status, job.Priority,
		job.Site, job.ScheduledAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating job: %w", err)
	}
	return nil
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now()

	query := `
		UPDATE jobs
		SET description = $2, status = $3, priority = $4, site = $5,
			scheduled_at = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		job.ID, job.Description, job.Status, job.Priority, job.Site,
		job.ScheduledAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error updating job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", job.ID)
	}
	return nil
}

func (r *jobRepository) FindByID(ctx context.Context, jobID string) (*domain.Job, error) {
	row := r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, jobID)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding job: %w", err)
	}
	return job, nil
}

func (r *jobRepository) FindByStatus(ctx context.Context, status string) ([]*domain.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` WHERE j.status = $1 ORDER BY j.created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` WHERE j.customer_id = $1 ORDER BY j.created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) FindAll(ctx context.Context) ([]*domain.Job, error) {
	rows, err := r.db.Query(ctx, jobSelect+` ORDER BY j.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	var c domain.Customer
	err := row.Scan(
		&j.ID, &j.CustomerID, &j.Description, &j.Status, &j.Priority, &j.Site,
		&j.ScheduledAt, &j.CreatedAt, &j.UpdatedAt,
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.Active,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Customer = &c
	return &j, nil
}

func scanJobs(rows pgx.Rows) ([]*domain.Job, error) {
	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading jobs: %w", err)
	}
	return jobs, nil
}
