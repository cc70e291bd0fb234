// Package memory provides in-memory implementations of the service
// stores. They back tests and local development without Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"resqhome-backend/internal/models"
	"resqhome-backend/internal/repository"
)

// UserRepo is an in-memory UserStore
type UserRepo struct {
	mu   sync.RWMutex
	byID map[string]models.User
}

// NewUserRepo creates an empty user repo
func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[string]models.User)}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[user.ID] = *user
	return nil
}

// ReportRepo is an in-memory ReportStore
type ReportRepo struct {
	mu   sync.RWMutex
	byID map[string]models.Report
}

// NewReportRepo creates an empty report repo
func NewReportRepo() *ReportRepo {
	return &ReportRepo{byID: make(map[string]models.Report)}
}

func (r *ReportRepo) Create(ctx context.Context, rep *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rep.ID] = *rep
	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := rep
	return &out, nil
}

func (r *ReportRepo) list(filter func(models.Report) bool) []*models.Report {
	var out []*models.Report
	for _, rep := range r.byID {
		if filter == nil || filter(rep) {
			c := rep
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *ReportRepo) ListByUser(ctx context.Context, userID string) ([]*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(rep models.Report) bool { return rep.UserID == userID }), nil
}

func (r *ReportRepo) ListAll(ctx context.Context) ([]*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(nil), nil
}

func (r *ReportRepo) ListRecent(ctx context.Context, n int) ([]*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.list(nil)
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	rep.Status = status
	rep.UpdatedAt = time.Now()
	r.byID[id] = rep
	return nil
}

func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *ReportRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func (r *ReportRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, rep := range r.byID {
		if rep.Status == status {
			n++
		}
	}
	return n, nil
}

// RescuedRepo is an in-memory RescuedStore. Promotion needs the report
// repo to mirror the transactional two-write of the Postgres adapter.
type RescuedRepo struct {
	mu      sync.RWMutex
	byID    map[string]models.Rescued
	reports *ReportRepo
}

// NewRescuedRepo creates an empty rescued repo
func NewRescuedRepo(reports *ReportRepo) *RescuedRepo {
	return &RescuedRepo{byID: make(map[string]models.Rescued), reports: reports}
}

func (r *RescuedRepo) Create(ctx context.Context, a *models.Rescued) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = *a
	return nil
}

func (r *RescuedRepo) CreateFromReport(ctx context.Context, reportID string, a *models.Rescued) error {
	if err := r.reports.UpdateStatus(ctx, reportID, models.ReportRescued); err != nil {
		return err
	}
	return r.Create(ctx, a)
}

func (r *RescuedRepo) GetByID(ctx context.Context, id string) (*models.Rescued, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := a
	return &out, nil
}

func (r *RescuedRepo) sorted() []*models.Rescued {
	var out []*models.Rescued
	for _, a := range r.byID {
		c := a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RescuedAt.After(out[j].RescuedAt)
	})
	return out
}

func (r *RescuedRepo) ListAll(ctx context.Context) ([]*models.Rescued, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(), nil
}

func (r *RescuedRepo) ListPage(ctx context.Context, city, animalType string, limit, offset int) ([]*models.Rescued, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []*models.Rescued
	for _, a := range r.sorted() {
		if city != "" && a.City != city {
			continue
		}
		if animalType != "" && a.Type != animalType {
			continue
		}
		filtered = append(filtered, a)
	}

	total := len(filtered)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return filtered[offset:end], total, nil
}

func (r *RescuedRepo) Update(ctx context.Context, a *models.Rescued) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[a.ID] = *a
	return nil
}

func (r *RescuedRepo) AppendMedical(ctx context.Context, id string, entry models.MedicalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.MedicalHistory = append(a.MedicalHistory, entry)
	r.byID[id] = a
	return nil
}

func (r *RescuedRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *RescuedRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// AnimalRepo is an in-memory AnimalStore
type AnimalRepo struct {
	mu   sync.RWMutex
	byID map[string]models.AdoptionAnimal
}

// NewAnimalRepo creates an empty listing repo
func NewAnimalRepo() *AnimalRepo {
	return &AnimalRepo{byID: make(map[string]models.AdoptionAnimal)}
}

func (r *AnimalRepo) Create(ctx context.Context, a *models.AdoptionAnimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = *a
	return nil
}

func (r *AnimalRepo) GetByID(ctx context.Context, id string) (*models.AdoptionAnimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := a
	return &out, nil
}

func (r *AnimalRepo) ListAll(ctx context.Context) ([]*models.AdoptionAnimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.AdoptionAnimal
	for _, a := range r.byID {
		c := a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *AnimalRepo) Update(ctx context.Context, a *models.AdoptionAnimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[a.ID] = *a
	return nil
}

func (r *AnimalRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *AnimalRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.byID {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

// RequestRepo is an in-memory RequestStore. Approval touches the animal
// repo the way the Postgres adapter's transaction does.
type RequestRepo struct {
	mu      sync.RWMutex
	byID    map[string]models.AdoptionRequest
	users   *UserRepo
	animals *AnimalRepo
}

// NewRequestRepo creates an empty request repo
func NewRequestRepo(users *UserRepo, animals *AnimalRepo) *RequestRepo {
	return &RequestRepo{
		byID:    make(map[string]models.AdoptionRequest),
		users:   users,
		animals: animals,
	}
}

func isActive(status string) bool {
	switch status {
	case models.RequestPending, models.RequestInProcess, models.RequestAdopted:
		return true
	}
	return false
}

func (r *RequestRepo) Create(ctx context.Context, req *models.AdoptionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.UserID == req.UserID && existing.AnimalID == req.AnimalID && isActive(existing.Status) {
			return repository.ErrDuplicate
		}
	}
	r.byID[req.ID] = *req
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id string) (*models.AdoptionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := req
	return &out, nil
}

func (r *RequestRepo) HasActive(ctx context.Context, userID, animalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.byID {
		if req.UserID == userID && req.AnimalID == animalID && isActive(req.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (r *RequestRepo) detail(ctx context.Context, req models.AdoptionRequest) (*models.AdoptionRequestDetail, error) {
	d := &models.AdoptionRequestDetail{AdoptionRequest: req}
	if animal, err := r.animals.GetByID(ctx, req.AnimalID); err == nil {
		d.Animal = animal.Summary()
	}
	if user, err := r.users.GetByID(ctx, req.UserID); err == nil {
		d.User = user.Summary()
	}
	return d, nil
}

func (r *RequestRepo) listDetails(ctx context.Context, filter func(models.AdoptionRequest) bool) ([]*models.AdoptionRequestDetail, error) {
	r.mu.RLock()
	requests := make([]models.AdoptionRequest, 0, len(r.byID))
	for _, req := range r.byID {
		if filter == nil || filter(req) {
			requests = append(requests, req)
		}
	}
	r.mu.RUnlock()

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	out := make([]*models.AdoptionRequestDetail, 0, len(requests))
	for _, req := range requests {
		d, err := r.detail(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *RequestRepo) ListByUser(ctx context.Context, userID string) ([]*models.AdoptionRequestDetail, error) {
	return r.listDetails(ctx, func(req models.AdoptionRequest) bool { return req.UserID == userID })
}

func (r *RequestRepo) ListAll(ctx context.Context) ([]*models.AdoptionRequestDetail, error) {
	return r.listDetails(ctx, nil)
}

func (r *RequestRepo) GetDetail(ctx context.Context, id string) (*models.AdoptionRequestDetail, error) {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.detail(ctx, *req)
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	req.Status = status
	r.byID[id] = req
	return nil
}

func (r *RequestRepo) Approve(ctx context.Context, id, animalID string, adoptedAt time.Time) error {
	r.mu.Lock()
	req, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return repository.ErrNotFound
	}
	req.Status = models.RequestAdopted
	req.AdoptedAt = &adoptedAt
	r.byID[id] = req

	for otherID, other := range r.byID {
		if otherID != id && other.AnimalID == animalID &&
			(other.Status == models.RequestPending || other.Status == models.RequestInProcess) {
			other.Status = models.RequestRejected
			r.byID[otherID] = other
		}
	}
	r.mu.Unlock()

	animal, err := r.animals.GetByID(ctx, animalID)
	if err != nil {
		return err
	}
	animal.Status = models.ListingAdopted
	animal.UpdatedAt = adoptedAt
	return r.animals.Update(ctx, animal)
}

func (r *RequestRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, req := range r.byID {
		if req.Status == status {
			n++
		}
	}
	return n, nil
}

// Counters aggregates the in-memory repos for the corp dashboard
type Counters struct {
	Reports  *ReportRepo
	Rescued  *RescuedRepo
	Animals  *AnimalRepo
	Requests *RequestRepo
}

func (c *Counters) CountReports(ctx context.Context) (int, error) {
	return c.Reports.Count(ctx)
}

func (c *Counters) CountReportsByStatus(ctx context.Context, status string) (int, error) {
	return c.Reports.CountByStatus(ctx, status)
}

func (c *Counters) CountRescued(ctx context.Context) (int, error) {
	return c.Rescued.Count(ctx)
}

func (c *Counters) CountListingsByStatus(ctx context.Context, status string) (int, error) {
	return c.Animals.CountByStatus(ctx, status)
}

func (c *Counters) CountRequestsByStatus(ctx context.Context, status string) (int, error) {
	return c.Requests.CountByStatus(ctx, status)
}

func (c *Counters) RecentReports(ctx context.Context, n int) ([]*models.Report, error) {
	return c.Reports.ListRecent(ctx, n)
}
