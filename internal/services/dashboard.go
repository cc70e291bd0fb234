package services

import (
	"context"
	"fmt"

	"resqhome-backend/internal/models"
)

// recentReportCount is how many reports the dashboard previews
const recentReportCount = 6

// DashboardCounters is the read-only aggregation surface
type DashboardCounters interface {
	CountReports(ctx context.Context) (int, error)
	CountReportsByStatus(ctx context.Context, status string) (int, error)
	CountRescued(ctx context.Context) (int, error)
	CountListingsByStatus(ctx context.Context, status string) (int, error)
	CountRequestsByStatus(ctx context.Context, status string) (int, error)
	RecentReports(ctx context.Context, n int) ([]*models.Report, error)
}

// DashboardService aggregates counts for the corp UI
type DashboardService struct {
	counters DashboardCounters
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(counters DashboardCounters) *DashboardService {
	return &DashboardService{counters: counters}
}

// Stats collects the dashboard counters and the newest reports
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	totalReports, err := s.counters.CountReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	inProcess, err := s.counters.CountReportsByStatus(ctx, models.ReportInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to count in-progress reports: %w", err)
	}
	rescued, err := s.counters.CountRescued(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rescued animals: %w", err)
	}
	listed, err := s.counters.CountListingsByStatus(ctx, models.ListingAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to count available listings: %w", err)
	}
	pending, err := s.counters.CountRequestsByStatus(ctx, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}
	recent, err := s.counters.RecentReports(ctx, recentReportCount)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent reports: %w", err)
	}
	if recent == nil {
		recent = []*models.Report{}
	}

	return &models.DashboardStats{
		TotalReports:    totalReports,
		InProcess:       inProcess,
		Rescued:         rescued,
		AdoptionListed:  listed,
		PendingRequests: pending,
		RecentReports:   recent,
	}, nil
}
