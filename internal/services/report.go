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

// ReportStore is the persistence surface the report service needs
type ReportStore interface {
	Create(ctx context.Context, rep *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Report, error)
	ListAll(ctx context.Context) ([]*models.Report, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// reportStatusRank orders the report lifecycle; transitions only move up
var reportStatusRank = map[string]int{
	models.ReportPending:    0,
	models.ReportInProgress: 1,
	models.ReportRescued:    2,
}

// ReportService handles stray-animal incident reports
type ReportService struct {
	reportRepo ReportStore
	events     Publisher
}

// NewReportService creates a new report service. events may be nil.
func NewReportService(reportRepo ReportStore, events Publisher) *ReportService {
	return &ReportService{reportRepo: reportRepo, events: events}
}

// CreateReportInput is the payload for filing a report
type CreateReportInput struct {
	Type        string
	Description string
	City        string
	Address     string
	Location    *models.LatLng
	ImageURL    string
}

// Create files a new report with status pending
func (s *ReportService) Create(ctx context.Context, userID string, in CreateReportInput) (*models.Report, error) {
	if in.Type == "" || in.Description == "" || in.City == "" {
		return nil, Validationf("type, description and city are required")
	}
	if in.ImageURL == "" {
		return nil, Validationf("image is required")
	}

	now := time.Now()
	rep := &models.Report{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        in.Type,
		Description: in.Description,
		City:        in.City,
		Address:     in.Address,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
		Status:      models.ReportPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.reportRepo.Create(ctx, rep); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if s.events != nil {
		s.events.Publish(Event{Type: EventReportFiled, Data: rep})
	}
	return rep, nil
}

// ListMine returns the caller's reports, newest first
func (s *ReportService) ListMine(ctx context.Context, userID string) ([]*models.Report, error) {
	return s.reportRepo.ListByUser(ctx, userID)
}

// ListAll returns every report, newest first
func (s *ReportService) ListAll(ctx context.Context) ([]*models.Report, error) {
	return s.reportRepo.ListAll(ctx)
}

// Get returns one report; only the owner may read it through this path
func (s *ReportService) Get(ctx context.Context, id, callerID string) (*models.Report, error) {
	rep, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	if rep.UserID != callerID {
		return nil, ErrForbidden
	}
	return rep, nil
}

// Delete removes a report; only the owner may delete it
func (s *ReportService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.Get(ctx, id, callerID); err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// UpdateStatus advances the report lifecycle. Backward moves and changes
// to an already-rescued report are rejected.
func (s *ReportService) UpdateStatus(ctx context.Context, id, status string) (*models.Report, error) {
	newRank, ok := reportStatusRank[status]
	if !ok {
		return nil, ErrInvalidStatus
	}

	rep, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if newRank <= reportStatusRank[rep.Status] {
		return nil, ErrConflict
	}

	if err := s.reportRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	rep.Status = status
	return rep, nil
}
