package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resqhome-backend/internal/models"
	"resqhome-backend/internal/repository"

	"github.com/google/uuid"
)

// initialRescueNote seeds the medical history of a promoted report
const initialRescueNote = "Initial rescue completed"

// RescuedStore is the persistence surface the rescue service needs
type RescuedStore interface {
	Create(ctx context.Context, a *models.Rescued) error
	CreateFromReport(ctx context.Context, reportID string, a *models.Rescued) error
	GetByID(ctx context.Context, id string) (*models.Rescued, error)
	ListAll(ctx context.Context) ([]*models.Rescued, error)
	ListPage(ctx context.Context, city, animalType string, limit, offset int) ([]*models.Rescued, int, error)
	Update(ctx context.Context, a *models.Rescued) error
	AppendMedical(ctx context.Context, id string, entry models.MedicalEntry) error
	Delete(ctx context.Context, id string) error
}

// RescueService handles rescued animal records and report promotion
type RescueService struct {
	rescuedRepo RescuedStore
	reportRepo  ReportStore
	events      Publisher
}

// NewRescueService creates a new rescue service. events may be nil.
func NewRescueService(rescuedRepo RescuedStore, reportRepo ReportStore, events Publisher) *RescueService {
	return &RescueService{
		rescuedRepo: rescuedRepo,
		reportRepo:  reportRepo,
		events:      events,
	}
}

// Promote marks a report rescued and creates the rescued record, copying
// the report's details. Both writes happen in one transaction.
func (s *RescueService) Promote(ctx context.Context, reportID, corpUserID string) (*models.Rescued, error) {
	rep, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if rep.Status == models.ReportRescued {
		return nil, ErrConflict
	}

	now := time.Now()
	animal := &models.Rescued{
		ID:          uuid.New().String(),
		Name:        rep.Type,
		Type:        rep.Type,
		City:        rep.City,
		Description: rep.Description,
		ImageURL:    rep.ImageURL,
		RescuedBy:   corpUserID,
		ReportID:    &rep.ID,
		RescuedAt:   now,
		Status:      models.RescuedAvailable,
		MedicalHistory: []models.MedicalEntry{
			{Date: now, Note: initialRescueNote},
		},
		CreatedAt: now,
	}

	if err := s.rescuedRepo.CreateFromReport(ctx, reportID, animal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to promote report: %w", err)
	}

	if s.events != nil {
		s.events.Publish(Event{Type: EventReportRescued, Data: animal})
	}
	return animal, nil
}

// CreateRescuedInput is the payload for a direct rescued record
type CreateRescuedInput struct {
	Name        string
	Type        string
	Age         string
	City        string
	Description string
	Status      string
	ImageURL    string
}

// Create adds a rescued record not derived from a report
func (s *RescueService) Create(ctx context.Context, corpUserID string, in CreateRescuedInput) (*models.Rescued, error) {
	if in.Name == "" {
		return nil, Validationf("name is required")
	}
	if in.ImageURL == "" {
		return nil, Validationf("image is required")
	}
	status := in.Status
	if status == "" {
		status = models.RescuedAvailable
	}
	if !validRescuedStatus(status) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	animal := &models.Rescued{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Type:           in.Type,
		Age:            in.Age,
		City:           in.City,
		Description:    in.Description,
		ImageURL:       in.ImageURL,
		RescuedBy:      corpUserID,
		RescuedAt:      now,
		Status:         status,
		MedicalHistory: []models.MedicalEntry{},
		CreatedAt:      now,
	}

	if err := s.rescuedRepo.Create(ctx, animal); err != nil {
		return nil, fmt.Errorf("failed to create rescued animal: %w", err)
	}
	return animal, nil
}

// ListParams filters the public rescued listing
type ListParams struct {
	Page  int
	Limit int
	City  string
	Type  string
}

// PageMeta describes a page of results
type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ListPage returns a filtered page of rescued animals
func (s *RescueService) ListPage(ctx context.Context, p ListParams) ([]*models.Rescued, PageMeta, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 12
	}
	if p.Limit > 100 {
		p.Limit = 100
	}

	animals, total, err := s.rescuedRepo.ListPage(ctx, p.City, p.Type, p.Limit, (p.Page-1)*p.Limit)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return animals, PageMeta{Total: total, Page: p.Page, Limit: p.Limit}, nil
}

// ListAll returns every rescued animal, newest first
func (s *RescueService) ListAll(ctx context.Context) ([]*models.Rescued, error) {
	return s.rescuedRepo.ListAll(ctx)
}

// Get returns one rescued animal
func (s *RescueService) Get(ctx context.Context, id string) (*models.Rescued, error) {
	animal, err := s.rescuedRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rescued animal: %w", err)
	}
	return animal, nil
}

// UpdateRescuedInput carries optional field changes; nil fields are kept
type UpdateRescuedInput struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Age         *string `json:"age"`
	City        *string `json:"city"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Update applies partial changes to a rescued record
func (s *RescueService) Update(ctx context.Context, id string, in UpdateRescuedInput) (*models.Rescued, error) {
	animal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		animal.Name = *in.Name
	}
	if in.Type != nil {
		animal.Type = *in.Type
	}
	if in.Age != nil {
		animal.Age = *in.Age
	}
	if in.City != nil {
		animal.City = *in.City
	}
	if in.Description != nil {
		animal.Description = *in.Description
	}
	if in.Status != nil {
		if !validRescuedStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		animal.Status = *in.Status
	}

	if err := s.rescuedRepo.Update(ctx, animal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update rescued animal: %w", err)
	}
	return animal, nil
}

// AddMedical appends a note to the animal's medical history
func (s *RescueService) AddMedical(ctx context.Context, id, note string) (*models.Rescued, error) {
	if note == "" {
		return nil, Validationf("note is required")
	}

	entry := models.MedicalEntry{Date: time.Now(), Note: note}
	if err := s.rescuedRepo.AppendMedical(ctx, id, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to append medical entry: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a rescued record
func (s *RescueService) Delete(ctx context.Context, id string) error {
	if err := s.rescuedRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete rescued animal: %w", err)
	}
	return nil
}

func validRescuedStatus(status string) bool {
	switch status {
	case models.RescuedAvailable, models.RescuedAdopted, models.RescuedFostered:
		return true
	}
	return false
}
