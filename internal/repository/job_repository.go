package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/talent-booking/internal/model"
)

// ErrJobNotFound is returned when a referenced job listing does not
// exist.
var ErrJobNotFound = errors.New("job not found")

// JobRepo provides CRUD operations for job listings. Listings are
// owned by brands; browse queries are open to everyone.
type JobRepo struct {
	db *sql.DB
}

// NewJobRepo returns a new JobRepo bound to the given database.
func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{db: db} }

// Create inserts a listing and returns its id.
func (r *JobRepo) Create(ctx context.Context, brandID uint64, title, description string, rate float64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (brand_id, title, description, rate, is_open) VALUES (?, ?, ?, ?, TRUE)`,
		brandID, title, description, rate)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns a listing by id. ErrJobNotFound is returned when no
// row exists.
func (r *JobRepo) GetByID(ctx context.Context, id uint64) (model.Job, error) {
	var j model.Job
	err := r.db.QueryRowContext(ctx,
		`SELECT id, brand_id, title, description, rate, is_open, created_at, updated_at
		 FROM jobs WHERE id = ? LIMIT 1`,
		id).Scan(&j.ID, &j.BrandID, &j.Title, &j.Description, &j.Rate, &j.IsOpen, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Job{}, ErrJobNotFound
	}
	return j, err
}

// ListOpen returns all listings that still accept offers, newest first.
func (r *JobRepo) ListOpen(ctx context.Context) ([]model.Job, error) {
	return r.list(ctx,
		`SELECT id, brand_id, title, description, rate, is_open, created_at, updated_at
		 FROM jobs WHERE is_open = TRUE ORDER BY created_at DESC`)
}

// ListByBrand returns all listings owned by a brand, newest first.
func (r *JobRepo) ListByBrand(ctx context.Context, brandID uint64) ([]model.Job, error) {
	return r.list(ctx,
		`SELECT id, brand_id, title, description, rate, is_open, created_at, updated_at
		 FROM jobs WHERE brand_id = ? ORDER BY created_at DESC`, brandID)
}

func (r *JobRepo) list(ctx context.Context, query string, args ...any) ([]model.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	jobs := make([]model.Job, 0)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(&j.ID, &j.BrandID, &j.Title, &j.Description, &j.Rate, &j.IsOpen, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Delete removes a listing after validating ownership. It returns
// ErrJobNotFound when the listing does not exist and ErrForbidden when
// it belongs to a different brand.
func (r *JobRepo) Delete(ctx context.Context, jobID, brandID uint64) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, `SELECT brand_id FROM jobs WHERE id = ? LIMIT 1`, jobID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrJobNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != brandID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, jobID)
	return err
}
