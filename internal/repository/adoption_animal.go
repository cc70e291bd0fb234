package repository

import (
	"context"
	"errors"
	"fmt"

	"resqhome-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdoptionAnimalRepository handles database operations for adoption listings
type AdoptionAnimalRepository struct {
	db *pgxpool.Pool
}

// NewAdoptionAnimalRepository creates a new adoption listing repository
func NewAdoptionAnimalRepository(db *pgxpool.Pool) *AdoptionAnimalRepository {
	return &AdoptionAnimalRepository{db: db}
}

const animalColumns = `id, name, type, breed, age, gender, weight, color, description, city, address,
	images, medical_images, video_url, medical_history, vaccinated, status, created_by, rescued_id,
	created_at, updated_at`

func scanAnimal(row pgx.Row) (*models.AdoptionAnimal, error) {
	var a models.AdoptionAnimal
	err := row.Scan(
		&a.ID, &a.Name, &a.Type, &a.Breed, &a.Age, &a.Gender, &a.Weight,
		&a.Color, &a.Description, &a.City, &a.Address,
		&a.Images, &a.MedicalImages, &a.VideoURL, &a.MedicalHistory,
		&a.Vaccinated, &a.Status, &a.CreatedBy, &a.RescuedID,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan adoption listing: %w", err)
	}
	return &a, nil
}

// Create creates a new adoption listing
func (r *AdoptionAnimalRepository) Create(ctx context.Context, a *models.AdoptionAnimal) error {
	query := `
		INSERT INTO adoption_animals (` + animalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Name, a.Type, a.Breed, a.Age, a.Gender, a.Weight,
		a.Color, a.Description, a.City, a.Address,
		a.Images, a.MedicalImages, a.VideoURL, a.MedicalHistory,
		a.Vaccinated, a.Status, a.CreatedBy, a.RescuedID,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create adoption listing: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by ID
func (r *AdoptionAnimalRepository) GetByID(ctx context.Context, id string) (*models.AdoptionAnimal, error) {
	query := `SELECT ` + animalColumns + ` FROM adoption_animals WHERE id = $1`
	return scanAnimal(r.db.QueryRow(ctx, query, id))
}

// ListAll retrieves every listing, newest first
func (r *AdoptionAnimalRepository) ListAll(ctx context.Context) ([]*models.AdoptionAnimal, error) {
	query := `SELECT ` + animalColumns + ` FROM adoption_animals ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list adoption listings: %w", err)
	}
	defer rows.Close()

	var animals []*models.AdoptionAnimal
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adoption listings: %w", err)
	}
	return animals, nil
}

// Update persists all mutable fields of a listing
func (r *AdoptionAnimalRepository) Update(ctx context.Context, a *models.AdoptionAnimal) error {
	query := `
		UPDATE adoption_animals
		SET name = $1, type = $2, breed = $3, age = $4, gender = $5, weight = $6,
		    color = $7, description = $8, city = $9, address = $10,
		    images = $11, medical_images = $12, video_url = $13, medical_history = $14,
		    vaccinated = $15, status = $16, updated_at = $17
		WHERE id = $18
	`
	result, err := r.db.Exec(ctx, query,
		a.Name, a.Type, a.Breed, a.Age, a.Gender, a.Weight,
		a.Color, a.Description, a.City, a.Address,
		a.Images, a.MedicalImages, a.VideoURL, a.MedicalHistory,
		a.Vaccinated, a.Status, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update adoption listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a listing
func (r *AdoptionAnimalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM adoption_animals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete adoption listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of listings in the given status
func (r *AdoptionAnimalRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM adoption_animals WHERE status = $1`, status).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count adoption listings: %w", err)
	}
	return total, nil
}
