package services_test

import (
	"context"
	"errors"
	"testing"

	"resqhome-backend/internal/models"
	"resqhome-backend/internal/repository/memory"
	"resqhome-backend/internal/services"
)

type adoptionFixture struct {
	svc      *services.AdoptionService
	rescue   *services.RescueService
	users    *memory.UserRepo
	animals  *memory.AnimalRepo
	requests *memory.RequestRepo
}

func newAdoptionFixture() *adoptionFixture {
	users := memory.NewUserRepo()
	reports := memory.NewReportRepo()
	rescued := memory.NewRescuedRepo(reports)
	animals := memory.NewAnimalRepo()
	requests := memory.NewRequestRepo(users, animals)

	return &adoptionFixture{
		svc:      services.NewAdoptionService(animals, requests, rescued, nil),
		rescue:   services.NewRescueService(rescued, reports, nil),
		users:    users,
		animals:  animals,
		requests: requests,
	}
}

func (f *adoptionFixture) listing(t *testing.T) *models.AdoptionAnimal {
	t.Helper()
	animal, err := f.svc.CreateListing(context.Background(), "corp1", services.CreateListingInput{
		Name:    "Firulais",
		Type:    "dog",
		City:    "Lima",
		Address: "Av. Arequipa 100",
		Images:  []string{"http://localhost:8080/uploads/adoption/a.jpg"},
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return animal
}

func TestCreateListing(t *testing.T) {
	f := newAdoptionFixture()

	animal := f.listing(t)
	if animal.Status != models.ListingAvailable {
		t.Fatalf("new listing status = %q, want %q", animal.Status, models.ListingAvailable)
	}
	if animal.CreatedBy != "corp1" {
		t.Fatalf("createdBy = %q", animal.CreatedBy)
	}

	_, err := f.svc.CreateListing(context.Background(), "corp1", services.CreateListingInput{Name: "x"})
	if !services.IsValidation(err) {
		t.Fatalf("expected validation error for incomplete listing, got %v", err)
	}
}

func TestCreateListingFromRescued(t *testing.T) {
	f := newAdoptionFixture()
	ctx := context.Background()

	rescued, err := f.rescue.Create(ctx, "corp1", services.CreateRescuedInput{
		Name:        "Rocky",
		Type:        "dog",
		Age:         "3",
		City:        "Cusco",
		Description: "friendly",
		ImageURL:    "http://localhost:8080/uploads/rescued/r.jpg",
	})
	if err != nil {
		t.Fatalf("create rescued: %v", err)
	}
	if _, err := f.rescue.AddMedical(ctx, rescued.ID, "vaccinated against rabies"); err != nil {
		t.Fatalf("add medical: %v", err)
	}

	animal, err := f.svc.CreateListing(ctx, "corp1", services.CreateListingInput{
		Address:   "Av. Sol 42",
		Images:    []string{"http://localhost:8080/uploads/adoption/a.jpg"},
		RescuedID: rescued.ID,
	})
	if err != nil {
		t.Fatalf("create listing from rescued: %v", err)
	}

	if animal.Name != "Rocky" || animal.Type != "dog" || animal.City != "Cusco" {
		t.Fatalf("rescued fields not seeded: %+v", animal)
	}
	if animal.RescuedID == nil || *animal.RescuedID != rescued.ID {
		t.Fatal("listing not linked to rescued record")
	}
	if len(animal.MedicalHistory) != 1 || animal.MedicalHistory[0].Note != "vaccinated against rabies" {
		t.Fatalf("medical history not carried over: %+v", animal.MedicalHistory)
	}
}

func TestUpdateListingPartial(t *testing.T) {
	f := newAdoptionFixture()
	ctx := context.Background()

	animal := f.listing(t)

	breed := "mestizo"
	vaccinated := true
	updated, err := f.svc.UpdateListing(ctx, animal.ID, services.UpdateListingInput{
		Breed:      &breed,
		Vaccinated: &vaccinated,
	})
	if err != nil {
		t.Fatalf("update listing: %v", err)
	}
	if updated.Breed != "mestizo" || !updated.Vaccinated {
		t.Fatalf("unexpected listing: %+v", updated)
	}
	if updated.Name != "Firulais" || len(updated.Images) != 1 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	updated, err = f.svc.UpdateListing(ctx, animal.ID, services.UpdateListingInput{
		Images:       []string{"http://localhost:8080/uploads/adoption/b.jpg", "http://localhost:8080/uploads/adoption/c.jpg"},
		MedicalNotes: []string{"dewormed"},
	})
	if err != nil {
		t.Fatalf("update images: %v", err)
	}
	if len(updated.Images) != 2 {
		t.Fatalf("images not replaced: %v", updated.Images)
	}
	if len(updated.MedicalHistory) != 1 || updated.MedicalHistory[0].Note != "dewormed" {
		t.Fatalf("medical notes not appended: %+v", updated.MedicalHistory)
	}
}

func TestAdoptionRequestDuplicates(t *testing.T) {
	f := newAdoptionFixture()
	ctx := context.Background()

	animal := f.listing(t)

	if _, err := f.svc.Request(ctx, "u1", animal.ID); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := f.svc.Request(ctx, "u1", animal.ID); !errors.Is(err, services.ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest, got %v", err)
	}
	// a second user may still request the same animal
	if _, err := f.svc.Request(ctx, "u2", animal.ID); err != nil {
		t.Fatalf("second user request: %v", err)
	}
	if _, err := f.svc.Request(ctx, "u1", "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown listing, got %v", err)
	}
}

func TestAdoptionStateMachine(t *testing.T) {
	f := newAdoptionFixture()
	ctx := context.Background()

	animal := f.listing(t)
	req, err := f.svc.Request(ctx, "u1", animal.ID)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if _, err := f.svc.UpdateRequestStatus(ctx, req.ID, "approved"); !errors.Is(err, services.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for unknown status, got %v", err)
	}

	// the state machine has no self-transitions
	if _, err := f.svc.UpdateRequestStatus(ctx, req.ID, models.RequestPending); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict for pending -> pending, got %v", err)
	}

	got, err := f.svc.UpdateRequestStatus(ctx, req.ID, models.RequestInProcess)
	if err != nil {
		t.Fatalf("pending -> in_process: %v", err)
	}
	if got.Status != models.RequestInProcess {
		t.Fatalf("status = %q", got.Status)
	}

	if _, err := f.svc.UpdateRequestStatus(ctx, req.ID, models.RequestPending); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict moving back to pending, got %v", err)
	}
	if _, err := f.svc.UpdateRequestStatus(ctx, req.ID, models.RequestInProcess); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict for in_process -> in_process, got %v", err)
	}

	got, err = f.svc.UpdateRequestStatus(ctx, req.ID, models.RequestRejected)
	if err != nil {
		t.Fatalf("in_process -> rejected: %v", err)
	}
	if got.Status != models.RequestRejected {
		t.Fatalf("status = %q", got.Status)
	}

	// rejected is terminal
	if _, err := f.svc.UpdateRequestStatus(ctx, req.ID, models.RequestInProcess); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict on terminal request, got %v", err)
	}
}

func TestAdoptionApprovalCascade(t *testing.T) {
	f := newAdoptionFixture()
	ctx := context.Background()

	animal := f.listing(t)
	winner, err := f.svc.Request(ctx, "u1", animal.ID)
	if err != nil {
		t.Fatalf("winner request: %v", err)
	}
	loser, err := f.svc.Request(ctx, "u2", animal.ID)
	if err != nil {
		t.Fatalf("loser request: %v", err)
	}

	approved, err := f.svc.UpdateRequestStatus(ctx, winner.ID, models.RequestAdopted)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.AdoptedAt == nil {
		t.Fatal("adoptedAt not set")
	}

	listing, err := f.svc.GetListing(ctx, animal.ID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if listing.Status != models.ListingAdopted {
		t.Fatalf("listing status = %q, want %q", listing.Status, models.ListingAdopted)
	}

	rejected, err := f.svc.GetRequest(ctx, loser.ID)
	if err != nil {
		t.Fatalf("get competing request: %v", err)
	}
	if rejected.Status != models.RequestRejected {
		t.Fatalf("competing request status = %q, want %q", rejected.Status, models.RequestRejected)
	}

	// adopted listings accept no further requests
	if _, err := f.svc.Request(ctx, "u3", animal.ID); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict on adopted listing, got %v", err)
	}
}

func TestMyRequestsBuckets(t *testing.T) {
	f := newAdoptionFixture()
	ctx := context.Background()

	a1 := f.listing(t)
	a2 := f.listing(t)
	a3 := f.listing(t)

	r1, err := f.svc.Request(ctx, "u1", a1.ID)
	if err != nil {
		t.Fatalf("request 1: %v", err)
	}
	r2, err := f.svc.Request(ctx, "u1", a2.ID)
	if err != nil {
		t.Fatalf("request 2: %v", err)
	}
	if _, err := f.svc.Request(ctx, "u1", a3.ID); err != nil {
		t.Fatalf("request 3: %v", err)
	}

	if _, err := f.svc.UpdateRequestStatus(ctx, r1.ID, models.RequestAdopted); err != nil {
		t.Fatalf("approve r1: %v", err)
	}
	if _, err := f.svc.UpdateRequestStatus(ctx, r2.ID, models.RequestInProcess); err != nil {
		t.Fatalf("advance r2: %v", err)
	}

	buckets, err := f.svc.MyRequests(ctx, "u1")
	if err != nil {
		t.Fatalf("my requests: %v", err)
	}
	if len(buckets.Approved) != 1 {
		t.Fatalf("approved = %d, want 1", len(buckets.Approved))
	}
	// in_process requests surface as pending alongside untouched ones
	if len(buckets.Pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(buckets.Pending))
	}
	if len(buckets.Rejected) != 0 {
		t.Fatalf("rejected = %d, want 0", len(buckets.Rejected))
	}
}
