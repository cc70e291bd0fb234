package repository

import (
	"context"
	"errors"
	"fmt"

	"resqhome-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository handles database operations for reports
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, user_id, type, description, city, address, location, image_url, status, created_at, updated_at`

func scanReport(row pgx.Row) (*models.Report, error) {
	var rep models.Report
	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Type, &rep.Description, &rep.City,
		&rep.Address, &rep.Location, &rep.ImageURL, &rep.Status,
		&rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	return &rep, nil
}

func collectReports(rows pgx.Rows) ([]*models.Report, error) {
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

// Create creates a new report
func (r *ReportRepository) Create(ctx context.Context, rep *models.Report) error {
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		rep.ID, rep.UserID, rep.Type, rep.Description, rep.City,
		rep.Address, rep.Location, rep.ImageURL, rep.Status,
		rep.CreatedAt, rep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	return scanReport(r.db.QueryRow(ctx, query, id))
}

// ListByUser retrieves a user's reports, newest first
func (r *ReportRepository) ListByUser(ctx context.Context, userID string) ([]*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return collectReports(rows)
}

// ListAll retrieves every report, newest first
func (r *ReportRepository) ListAll(ctx context.Context) ([]*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return collectReports(rows)
}

// ListRecent retrieves the n newest reports
func (r *ReportRepository) ListRecent(ctx context.Context, n int) ([]*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reports: %w", err)
	}
	return collectReports(rows)
}

// UpdateStatus sets the status of a report
func (r *ReportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE reports SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a report
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of reports
func (r *ReportRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return total, nil
}

// CountByStatus returns the number of reports in the given status
func (r *ReportRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status = $1`, status).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return total, nil
}
