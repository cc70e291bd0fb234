package models

import "time"

// User roles
const (
	RoleUser        = "user"
	RoleCorporation = "corporation"
	RoleAdmin       = "admin"
)

// Report statuses
const (
	ReportPending    = "pending"
	ReportInProgress = "in-progress"
	ReportRescued    = "rescued"
)

// Rescued animal statuses
const (
	RescuedAvailable = "available"
	RescuedAdopted   = "adopted"
	RescuedFostered  = "fostered"
)

// Adoption listing statuses
const (
	ListingAvailable = "available"
	ListingAdopted   = "adopted"
)

// Adoption request statuses
const (
	RequestPending   = "pending"
	RequestInProcess = "in_process"
	RequestRejected  = "rejected"
	RequestAdopted   = "adopted"
)

// User represents an account, either a regular user or a rescue corporation
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	City         string    `json:"city"`
	Bio          string    `json:"bio,omitempty"`
	Website      string    `json:"website,omitempty"`
	ProfilePic   string    `json:"profilePic,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the trimmed user shape embedded in populated responses
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
}

// Summary returns the embeddable view of a user
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, City: u.City}
}

// LatLng is a geographic point attached to a report
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is a user-submitted stray/injured animal sighting
type Report struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	City        string    `json:"city"`
	Address     string    `json:"address,omitempty"`
	Location    *LatLng   `json:"location,omitempty"`
	ImageURL    string    `json:"imageUrl"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MedicalEntry is one append-only medical history note
type MedicalEntry struct {
	Date time.Time `json:"date"`
	Note string    `json:"note"`
}

// Rescued is an animal confirmed retrieved by a corp actor
type Rescued struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type,omitempty"`
	Age            string         `json:"age,omitempty"`
	City           string         `json:"city,omitempty"`
	Description    string         `json:"description,omitempty"`
	ImageURL       string         `json:"imageUrl"`
	RescuedBy      string         `json:"rescuedBy"`
	ReportID       *string        `json:"reportId,omitempty"`
	RescuedAt      time.Time      `json:"rescuedAt"`
	Status         string         `json:"status"`
	MedicalHistory []MedicalEntry `json:"medicalHistory"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// AdoptionAnimal is a rescued animal listed for adoption
type AdoptionAnimal struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Breed          string         `json:"breed,omitempty"`
	Age            string         `json:"age,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	Weight         string         `json:"weight,omitempty"`
	Color          string         `json:"color,omitempty"`
	Description    string         `json:"description,omitempty"`
	City           string         `json:"city"`
	Address        string         `json:"address"`
	Images         []string       `json:"images"`
	MedicalImages  []string       `json:"medicalImages,omitempty"`
	VideoURL       string         `json:"video,omitempty"`
	MedicalHistory []MedicalEntry `json:"medicalHistory"`
	Vaccinated     bool           `json:"vaccinated"`
	Status         string         `json:"status"`
	CreatedBy      string         `json:"createdBy"`
	RescuedID      *string        `json:"rescuedId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// AnimalSummary is the trimmed listing shape embedded in populated responses
type AnimalSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Age    string   `json:"age,omitempty"`
	City   string   `json:"city"`
	Images []string `json:"images"`
}

// Summary returns the embeddable view of a listing
func (a *AdoptionAnimal) Summary() AnimalSummary {
	return AnimalSummary{ID: a.ID, Name: a.Name, Type: a.Type, Age: a.Age, City: a.City, Images: a.Images}
}

// AdoptionRequest links one user to one listing
type AdoptionRequest struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user"`
	AnimalID  string     `json:"animal"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	AdoptedAt *time.Time `json:"adoptedAt,omitempty"`
}

// AdoptionRequestDetail is a request with populated animal and requester summaries
type AdoptionRequestDetail struct {
	AdoptionRequest
	Animal AnimalSummary `json:"animalDetail"`
	User   UserSummary   `json:"userDetail"`
}

// Claims are the verified token claims attached to a request context
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// DashboardStats aggregates counts for the corp dashboard
type DashboardStats struct {
	TotalReports    int       `json:"totalReports"`
	InProcess       int       `json:"inProcess"`
	Rescued         int       `json:"rescued"`
	AdoptionListed  int       `json:"adoptionListed"`
	PendingRequests int       `json:"pendingRequests"`
	RecentReports   []*Report `json:"recentReports"`
}
