package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resqhome-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdoptionRequestRepository handles database operations for adoption requests
type AdoptionRequestRepository struct {
	db *pgxpool.Pool
}

// NewAdoptionRequestRepository creates a new adoption request repository
func NewAdoptionRequestRepository(db *pgxpool.Pool) *AdoptionRequestRepository {
	return &AdoptionRequestRepository{db: db}
}

const requestColumns = `id, user_id, animal_id, status, created_at, adopted_at`

func scanRequest(row pgx.Row) (*models.AdoptionRequest, error) {
	var req models.AdoptionRequest
	err := row.Scan(&req.ID, &req.UserID, &req.AnimalID, &req.Status, &req.CreatedAt, &req.AdoptedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan adoption request: %w", err)
	}
	return &req, nil
}

// Create creates a new adoption request. Returns ErrDuplicate when the caller
// already holds an active request for the animal (partial unique index).
func (r *AdoptionRequestRepository) Create(ctx context.Context, req *models.AdoptionRequest) error {
	query := `
		INSERT INTO adoption_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.UserID, req.AnimalID, req.Status, req.CreatedAt, req.AdoptedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create adoption request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by ID
func (r *AdoptionRequestRepository) GetByID(ctx context.Context, id string) (*models.AdoptionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM adoption_requests WHERE id = $1`
	return scanRequest(r.db.QueryRow(ctx, query, id))
}

// HasActive reports whether the user already holds a pending, in-process or
// adopted request for the animal
func (r *AdoptionRequestRepository) HasActive(ctx context.Context, userID, animalID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM adoption_requests
			WHERE user_id = $1 AND animal_id = $2
			  AND status IN ('pending', 'in_process', 'adopted')
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, animalID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active request: %w", err)
	}
	return exists, nil
}

// ListByUser retrieves a user's requests with animal summaries, newest first
func (r *AdoptionRequestRepository) ListByUser(ctx context.Context, userID string) ([]*models.AdoptionRequestDetail, error) {
	query := detailQuery + ` WHERE ar.user_id = $1 ORDER BY ar.created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adoption requests: %w", err)
	}
	return collectDetails(rows)
}

const detailQuery = `
	SELECT ar.id, ar.user_id, ar.animal_id, ar.status, ar.created_at, ar.adopted_at,
	       a.id, a.name, a.type, a.age, a.city, a.images,
	       u.id, u.name, u.email, u.city
	FROM adoption_requests ar
	JOIN adoption_animals a ON a.id = ar.animal_id
	JOIN users u ON u.id = ar.user_id
`

func scanDetail(row pgx.Row) (*models.AdoptionRequestDetail, error) {
	var d models.AdoptionRequestDetail
	err := row.Scan(
		&d.ID, &d.UserID, &d.AnimalID, &d.Status, &d.CreatedAt, &d.AdoptedAt,
		&d.Animal.ID, &d.Animal.Name, &d.Animal.Type, &d.Animal.Age, &d.Animal.City, &d.Animal.Images,
		&d.User.ID, &d.User.Name, &d.User.Email, &d.User.City,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan adoption request detail: %w", err)
	}
	return &d, nil
}

func collectDetails(rows pgx.Rows) ([]*models.AdoptionRequestDetail, error) {
	defer rows.Close()

	var details []*models.AdoptionRequestDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adoption requests: %w", err)
	}
	return details, nil
}

// ListAll retrieves every request with populated summaries, newest first
func (r *AdoptionRequestRepository) ListAll(ctx context.Context) ([]*models.AdoptionRequestDetail, error) {
	rows, err := r.db.Query(ctx, detailQuery+` ORDER BY ar.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list adoption requests: %w", err)
	}
	return collectDetails(rows)
}

// GetDetail retrieves one request with populated summaries
func (r *AdoptionRequestRepository) GetDetail(ctx context.Context, id string) (*models.AdoptionRequestDetail, error) {
	return scanDetail(r.db.QueryRow(ctx, detailQuery+` WHERE ar.id = $1`, id))
}

// UpdateStatus sets the status of a request
func (r *AdoptionRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.Exec(ctx, `UPDATE adoption_requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update adoption request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Approve finalizes a request in one transaction: the request becomes
// adopted, the listing is marked adopted, and every other active request for
// the same animal is rejected so the partial unique index stays satisfiable.
func (r *AdoptionRequestRepository) Approve(ctx context.Context, id, animalID string, adoptedAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin approval transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE adoption_requests SET status = $1, adopted_at = $2 WHERE id = $3`,
		models.RequestAdopted, adoptedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to approve adoption request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`UPDATE adoption_requests SET status = $1
		 WHERE animal_id = $2 AND id <> $3 AND status IN ('pending', 'in_process')`,
		models.RequestRejected, animalID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to reject competing requests: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE adoption_animals SET status = $1, updated_at = NOW() WHERE id = $2`,
		models.ListingAdopted, animalID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark listing adopted: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit approval transaction: %w", err)
	}
	return nil
}

// CountByStatus returns the number of requests in the given status
func (r *AdoptionRequestRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM adoption_requests WHERE status = $1`, status).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count adoption requests: %w", err)
	}
	return total, nil
}
