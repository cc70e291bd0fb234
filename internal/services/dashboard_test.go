package services_test

import (
	"context"
	"testing"

	"resqhome-backend/internal/repository/memory"
	"resqhome-backend/internal/services"
)

func TestDashboardStats(t *testing.T) {
	users := memory.NewUserRepo()
	reports := memory.NewReportRepo()
	rescued := memory.NewRescuedRepo(reports)
	animals := memory.NewAnimalRepo()
	requests := memory.NewRequestRepo(users, animals)

	reportSvc := services.NewReportService(reports, nil)
	rescueSvc := services.NewRescueService(rescued, reports, nil)
	adoptionSvc := services.NewAdoptionService(animals, requests, rescued, nil)
	dashSvc := services.NewDashboardService(&memory.Counters{
		Reports:  reports,
		Rescued:  rescued,
		Animals:  animals,
		Requests: requests,
	})
	ctx := context.Background()

	// two pending, one advanced, one promoted
	fileReport(t, reportSvc, "u1")
	fileReport(t, reportSvc, "u1")
	advanced := fileReport(t, reportSvc, "u2")
	promoted := fileReport(t, reportSvc, "u2")

	if _, err := reportSvc.UpdateStatus(ctx, advanced.ID, "in-progress"); err != nil {
		t.Fatalf("advance report: %v", err)
	}
	if _, err := rescueSvc.Promote(ctx, promoted.ID, "corp1"); err != nil {
		t.Fatalf("promote report: %v", err)
	}

	listing, err := adoptionSvc.CreateListing(ctx, "corp1", services.CreateListingInput{
		Name:    "Firulais",
		Type:    "dog",
		City:    "Lima",
		Address: "Av. Arequipa 100",
		Images:  []string{"http://localhost:8080/uploads/adoption/a.jpg"},
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if _, err := adoptionSvc.Request(ctx, "u1", listing.ID); err != nil {
		t.Fatalf("request: %v", err)
	}

	stats, err := dashSvc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalReports != 4 {
		t.Fatalf("totalReports = %d, want 4", stats.TotalReports)
	}
	if stats.InProcess != 1 {
		t.Fatalf("inProcess = %d, want 1", stats.InProcess)
	}
	if stats.Rescued != 1 {
		t.Fatalf("rescued = %d, want 1", stats.Rescued)
	}
	if stats.AdoptionListed != 1 {
		t.Fatalf("adoptionListed = %d, want 1", stats.AdoptionListed)
	}
	if stats.PendingRequests != 1 {
		t.Fatalf("pendingRequests = %d, want 1", stats.PendingRequests)
	}
	if len(stats.RecentReports) != 4 {
		t.Fatalf("recentReports = %d, want 4", len(stats.RecentReports))
	}
}
