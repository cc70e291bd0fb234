package repository

import (
	"context"

	"resqhome-backend/internal/models"
)

// DashboardRepository exposes cross-entity counters for the corp dashboard
type DashboardRepository struct {
	reports  *ReportRepository
	rescued  *RescuedRepository
	animals  *AdoptionAnimalRepository
	requests *AdoptionRequestRepository
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(
	reports *ReportRepository,
	rescued *RescuedRepository,
	animals *AdoptionAnimalRepository,
	requests *AdoptionRequestRepository,
) *DashboardRepository {
	return &DashboardRepository{
		reports:  reports,
		rescued:  rescued,
		animals:  animals,
		requests: requests,
	}
}

// CountReports returns the total number of reports
func (r *DashboardRepository) CountReports(ctx context.Context) (int, error) {
	return r.reports.Count(ctx)
}

// CountReportsByStatus returns the number of reports in a status
func (r *DashboardRepository) CountReportsByStatus(ctx context.Context, status string) (int, error) {
	return r.reports.CountByStatus(ctx, status)
}

// CountRescued returns the total number of rescued animals
func (r *DashboardRepository) CountRescued(ctx context.Context) (int, error) {
	return r.rescued.Count(ctx)
}

// CountListingsByStatus returns the number of listings in a status
func (r *DashboardRepository) CountListingsByStatus(ctx context.Context, status string) (int, error) {
	return r.animals.CountByStatus(ctx, status)
}

// CountRequestsByStatus returns the number of adoption requests in a status
func (r *DashboardRepository) CountRequestsByStatus(ctx context.Context, status string) (int, error) {
	return r.requests.CountByStatus(ctx, status)
}

// RecentReports returns the n newest reports
func (r *DashboardRepository) RecentReports(ctx context.Context, n int) ([]*models.Report, error) {
	return r.reports.ListRecent(ctx, n)
}
