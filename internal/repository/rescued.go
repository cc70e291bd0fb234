package repository

import (
	"context"
	"errors"
	"fmt"

	"resqhome-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RescuedRepository handles database operations for rescued animals
type RescuedRepository struct {
	db *pgxpool.Pool
}

// NewRescuedRepository creates a new rescued repository
func NewRescuedRepository(db *pgxpool.Pool) *RescuedRepository {
	return &RescuedRepository{db: db}
}

const rescuedColumns = `id, name, type, age, city, description, image_url, rescued_by, report_id, rescued_at, status, medical_history, created_at`

func scanRescued(row pgx.Row) (*models.Rescued, error) {
	var a models.Rescued
	err := row.Scan(
		&a.ID, &a.Name, &a.Type, &a.Age, &a.City, &a.Description,
		&a.ImageURL, &a.RescuedBy, &a.ReportID, &a.RescuedAt, &a.Status,
		&a.MedicalHistory, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan rescued animal: %w", err)
	}
	return &a, nil
}

func collectRescued(rows pgx.Rows) ([]*models.Rescued, error) {
	defer rows.Close()

	var animals []*models.Rescued
	for rows.Next() {
		a, err := scanRescued(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rescued animals: %w", err)
	}
	return animals, nil
}

const insertRescuedQuery = `
	INSERT INTO rescued_animals (` + rescuedColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// Create creates a new rescued record
func (r *RescuedRepository) Create(ctx context.Context, a *models.Rescued) error {
	_, err := r.db.Exec(ctx, insertRescuedQuery,
		a.ID, a.Name, a.Type, a.Age, a.City, a.Description,
		a.ImageURL, a.RescuedBy, a.ReportID, a.RescuedAt, a.Status,
		a.MedicalHistory, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rescued animal: %w", err)
	}
	return nil
}

// CreateFromReport marks a report rescued and inserts the rescued record in
// one transaction so a crash cannot leave a rescued report with no record.
func (r *RescuedRepository) CreateFromReport(ctx context.Context, reportID string, a *models.Rescued) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rescue transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE reports SET status = $1, updated_at = NOW() WHERE id = $2`,
		models.ReportRescued, reportID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark report rescued: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx, insertRescuedQuery,
		a.ID, a.Name, a.Type, a.Age, a.City, a.Description,
		a.ImageURL, a.RescuedBy, a.ReportID, a.RescuedAt, a.Status,
		a.MedicalHistory, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rescued animal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rescue transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a rescued animal by ID
func (r *RescuedRepository) GetByID(ctx context.Context, id string) (*models.Rescued, error) {
	query := `SELECT ` + rescuedColumns + ` FROM rescued_animals WHERE id = $1`
	return scanRescued(r.db.QueryRow(ctx, query, id))
}

// ListAll retrieves every rescued animal, newest first
func (r *RescuedRepository) ListAll(ctx context.Context) ([]*models.Rescued, error) {
	query := `SELECT ` + rescuedColumns + ` FROM rescued_animals ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rescued animals: %w", err)
	}
	return collectRescued(rows)
}

// ListPage retrieves a filtered page of rescued animals plus the total count.
// Empty city/type match everything.
func (r *RescuedRepository) ListPage(ctx context.Context, city, animalType string, limit, offset int) ([]*models.Rescued, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM rescued_animals
		WHERE ($1 = '' OR city = $1) AND ($2 = '' OR type = $2)
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, city, animalType).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rescued animals: %w", err)
	}

	query := `
		SELECT ` + rescuedColumns + ` FROM rescued_animals
		WHERE ($1 = '' OR city = $1) AND ($2 = '' OR type = $2)
		ORDER BY rescued_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, city, animalType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rescued animals: %w", err)
	}
	animals, err := collectRescued(rows)
	if err != nil {
		return nil, 0, err
	}
	return animals, total, nil
}

// Update persists mutable fields of a rescued record
func (r *RescuedRepository) Update(ctx context.Context, a *models.Rescued) error {
	query := `
		UPDATE rescued_animals
		SET name = $1, type = $2, age = $3, city = $4, description = $5, status = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query, a.Name, a.Type, a.Age, a.City, a.Description, a.Status, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update rescued animal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMedical appends one entry to the medical history document
func (r *RescuedRepository) AppendMedical(ctx context.Context, id string, entry models.MedicalEntry) error {
	query := `
		UPDATE rescued_animals
		SET medical_history = medical_history || $1::jsonb
		WHERE id = $2
	`
	result, err := r.db.Exec(ctx, query, entry, id)
	if err != nil {
		return fmt.Errorf("failed to append medical entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a rescued record
func (r *RescuedRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM rescued_animals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rescued animal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of rescued animals
func (r *RescuedRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rescued_animals`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count rescued animals: %w", err)
	}
	return total, nil
}
