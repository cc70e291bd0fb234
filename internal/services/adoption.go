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

// AnimalStore is the listing persistence surface
type AnimalStore interface {
	Create(ctx context.Context, a *models.AdoptionAnimal) error
	GetByID(ctx context.Context, id string) (*models.AdoptionAnimal, error)
	ListAll(ctx context.Context) ([]*models.AdoptionAnimal, error)
	Update(ctx context.Context, a *models.AdoptionAnimal) error
	Delete(ctx context.Context, id string) error
}

// RequestStore is the adoption-request persistence surface
type RequestStore interface {
	Create(ctx context.Context, req *models.AdoptionRequest) error
	GetByID(ctx context.Context, id string) (*models.AdoptionRequest, error)
	HasActive(ctx context.Context, userID, animalID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.AdoptionRequestDetail, error)
	ListAll(ctx context.Context) ([]*models.AdoptionRequestDetail, error)
	GetDetail(ctx context.Context, id string) (*models.AdoptionRequestDetail, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Approve(ctx context.Context, id, animalID string, adoptedAt time.Time) error
}

// AdoptionService handles listings and the request state machine
type AdoptionService struct {
	animalRepo  AnimalStore
	requestRepo RequestStore
	rescuedRepo RescuedStore
	events      Publisher
}

// NewAdoptionService creates a new adoption service. events may be nil.
func NewAdoptionService(animalRepo AnimalStore, requestRepo RequestStore, rescuedRepo RescuedStore, events Publisher) *AdoptionService {
	return &AdoptionService{
		animalRepo:  animalRepo,
		requestRepo: requestRepo,
		rescuedRepo: rescuedRepo,
		events:      events,
	}
}

// CreateListingInput is the payload for a new adoption listing
type CreateListingInput struct {
	Name          string
	Type          string
	Breed         string
	Age           string
	Gender        string
	Weight        string
	Color         string
	Description   string
	City          string
	Address       string
	Images        []string
	MedicalImages []string
	VideoURL      string
	MedicalNotes  []string
	Vaccinated    bool
	// RescuedID optionally seeds the listing from a rescued record
	RescuedID string
}

// CreateListing creates a listing with status available. When RescuedID is
// set, blank fields are seeded from the rescued record and its medical
// history is carried over.
func (s *AdoptionService) CreateListing(ctx context.Context, corpUserID string, in CreateListingInput) (*models.AdoptionAnimal, error) {
	now := time.Now()

	var history []models.MedicalEntry
	var rescuedID *string

	if in.RescuedID != "" {
		rescued, err := s.rescuedRepo.GetByID(ctx, in.RescuedID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get rescued animal: %w", err)
		}
		rescuedID = &rescued.ID
		history = append(history, rescued.MedicalHistory...)

		if in.Name == "" {
			in.Name = rescued.Name
		}
		if in.Type == "" {
			in.Type = rescued.Type
		}
		if in.Age == "" {
			in.Age = rescued.Age
		}
		if in.City == "" {
			in.City = rescued.City
		}
		if in.Description == "" {
			in.Description = rescued.Description
		}
		if len(in.Images) == 0 && rescued.ImageURL != "" {
			in.Images = []string{rescued.ImageURL}
		}
	}

	if in.Name == "" || in.Type == "" || in.City == "" || in.Address == "" {
		return nil, Validationf("name, type, city and address are required")
	}
	if len(in.Images) == 0 {
		return nil, Validationf("at least one image is required")
	}

	for _, note := range in.MedicalNotes {
		if note != "" {
			history = append(history, models.MedicalEntry{Date: now, Note: note})
		}
	}
	if history == nil {
		history = []models.MedicalEntry{}
	}
	if in.MedicalImages == nil {
		in.MedicalImages = []string{}
	}

	animal := &models.AdoptionAnimal{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Type:           in.Type,
		Breed:          in.Breed,
		Age:            in.Age,
		Gender:         in.Gender,
		Weight:         in.Weight,
		Color:          in.Color,
		Description:    in.Description,
		City:           in.City,
		Address:        in.Address,
		Images:         in.Images,
		MedicalImages:  in.MedicalImages,
		VideoURL:       in.VideoURL,
		MedicalHistory: history,
		Vaccinated:     in.Vaccinated,
		Status:         models.ListingAvailable,
		CreatedBy:      corpUserID,
		RescuedID:      rescuedID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.animalRepo.Create(ctx, animal); err != nil {
		return nil, fmt.Errorf("failed to create adoption listing: %w", err)
	}
	return animal, nil
}

// ListListings returns every listing, newest first
func (s *AdoptionService) ListListings(ctx context.Context) ([]*models.AdoptionAnimal, error) {
	return s.animalRepo.ListAll(ctx)
}

// GetListing returns one listing
func (s *AdoptionService) GetListing(ctx context.Context, id string) (*models.AdoptionAnimal, error) {
	animal, err := s.animalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get adoption listing: %w", err)
	}
	return animal, nil
}

// UpdateListingInput carries optional listing changes; nil/empty fields keep
// the existing values. File fields replace only when new uploads arrived.
type UpdateListingInput struct {
	Name          *string
	Type          *string
	Breed         *string
	Age           *string
	Gender        *string
	Weight        *string
	Color         *string
	Description   *string
	City          *string
	Address       *string
	Vaccinated    *bool
	Images        []string
	MedicalImages []string
	VideoURL      *string
	MedicalNotes  []string
}

// UpdateListing applies partial changes to a listing
func (s *AdoptionService) UpdateListing(ctx context.Context, id string, in UpdateListingInput) (*models.AdoptionAnimal, error) {
	animal, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		animal.Name = *in.Name
	}
	if in.Type != nil {
		animal.Type = *in.Type
	}
	if in.Breed != nil {
		animal.Breed = *in.Breed
	}
	if in.Age != nil {
		animal.Age = *in.Age
	}
	if in.Gender != nil {
		animal.Gender = *in.Gender
	}
	if in.Weight != nil {
		animal.Weight = *in.Weight
	}
	if in.Color != nil {
		animal.Color = *in.Color
	}
	if in.Description != nil {
		animal.Description = *in.Description
	}
	if in.City != nil {
		animal.City = *in.City
	}
	if in.Address != nil {
		animal.Address = *in.Address
	}
	if in.Vaccinated != nil {
		animal.Vaccinated = *in.Vaccinated
	}
	if len(in.Images) > 0 {
		animal.Images = in.Images
	}
	if len(in.MedicalImages) > 0 {
		animal.MedicalImages = in.MedicalImages
	}
	if in.VideoURL != nil {
		animal.VideoURL = *in.VideoURL
	}

	now := time.Now()
	for _, note := range in.MedicalNotes {
		if note != "" {
			animal.MedicalHistory = append(animal.MedicalHistory, models.MedicalEntry{Date: now, Note: note})
		}
	}

	animal.UpdatedAt = now
	if err := s.animalRepo.Update(ctx, animal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update adoption listing: %w", err)
	}
	return animal, nil
}

// DeleteListing removes a listing
func (s *AdoptionService) DeleteListing(ctx context.Context, id string) error {
	if err := s.animalRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete adoption listing: %w", err)
	}
	return nil
}

// Request submits an adoption request for a listing. A caller may hold at
// most one active request per animal; the store's unique index backs the
// friendly pre-check here.
func (s *AdoptionService) Request(ctx context.Context, userID, animalID string) (*models.AdoptionRequest, error) {
	animal, err := s.GetListing(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if animal.Status == models.ListingAdopted {
		return nil, ErrConflict
	}

	active, err := s.requestRepo.HasActive(ctx, userID, animalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active request: %w", err)
	}
	if active {
		return nil, ErrDuplicateRequest
	}

	req := &models.AdoptionRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		AnimalID:  animalID,
		Status:    models.RequestPending,
		CreatedAt: time.Now(),
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRequest
		}
		return nil, fmt.Errorf("failed to create adoption request: %w", err)
	}

	if s.events != nil {
		s.events.Publish(Event{Type: EventAdoptionRequested, Data: req})
	}
	return req, nil
}

// RequestBuckets partitions a user's requests for the my-adoptions view
type RequestBuckets struct {
	Pending  []*models.AdoptionRequestDetail `json:"pending"`
	Approved []*models.AdoptionRequestDetail `json:"approved"`
	Rejected []*models.AdoptionRequestDetail `json:"rejected"`
}

// MyRequests returns the caller's requests partitioned by outcome.
// In-process requests count as pending; adopted ones as approved.
func (s *AdoptionService) MyRequests(ctx context.Context, userID string) (*RequestBuckets, error) {
	details, err := s.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adoption requests: %w", err)
	}

	buckets := &RequestBuckets{
		Pending:  []*models.AdoptionRequestDetail{},
		Approved: []*models.AdoptionRequestDetail{},
		Rejected: []*models.AdoptionRequestDetail{},
	}
	for _, d := range details {
		switch d.Status {
		case models.RequestAdopted:
			buckets.Approved = append(buckets.Approved, d)
		case models.RequestRejected:
			buckets.Rejected = append(buckets.Rejected, d)
		default:
			buckets.Pending = append(buckets.Pending, d)
		}
	}
	return buckets, nil
}

// ListRequests returns every request with populated summaries
func (s *AdoptionService) ListRequests(ctx context.Context) ([]*models.AdoptionRequestDetail, error) {
	return s.requestRepo.ListAll(ctx)
}

// GetRequest returns one request with populated summaries
func (s *AdoptionService) GetRequest(ctx context.Context, id string) (*models.AdoptionRequestDetail, error) {
	detail, err := s.requestRepo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get adoption request: %w", err)
	}
	return detail, nil
}

// UpdateRequestStatus drives the request state machine:
//
//	pending    -> in_process | adopted | rejected
//	in_process -> adopted | rejected
//	adopted, rejected: terminal
//
// Reaching adopted also marks the listing adopted and rejects competing
// requests, all in one transaction.
func (s *AdoptionService) UpdateRequestStatus(ctx context.Context, id, status string) (*models.AdoptionRequest, error) {
	switch status {
	case models.RequestPending, models.RequestInProcess, models.RequestRejected, models.RequestAdopted:
	default:
		return nil, ErrInvalidStatus
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get adoption request: %w", err)
	}

	if req.Status == models.RequestAdopted || req.Status == models.RequestRejected {
		return nil, ErrConflict
	}
	// no self-transitions, no moves back to pending
	if status == req.Status || status == models.RequestPending {
		return nil, ErrConflict
	}

	if status == models.RequestAdopted {
		now := time.Now()
		if err := s.requestRepo.Approve(ctx, req.ID, req.AnimalID, now); err != nil {
			return nil, fmt.Errorf("failed to approve adoption request: %w", err)
		}
		req.AdoptedAt = &now
	} else {
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, status); err != nil {
			return nil, fmt.Errorf("failed to update adoption request: %w", err)
		}
	}
	req.Status = status

	if s.events != nil {
		s.events.Publish(Event{Type: EventRequestStatusChange, Data: req})
	}
	return req, nil
}
