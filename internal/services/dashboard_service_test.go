package services

import (
	"context"
	"testing"
	"time"

	"contractflow/internal/models/request_models"
	resp "contractflow/internal/models/response_models"
)

func TestBuildDashboard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// One paid, one pending that will expire, one info_submitted still open.
	paid := f.create(t, "testing", 7)
	if _, err := f.contract.SubmitStep(ctx, paid, request_models.SubmitStepRequest{Step: "payment", PaymentMethod: "testing"}); err != nil {
		t.Fatalf("testing payment failed: %v", err)
	}
	f.create(t, "growth", 1)
	open := f.create(t, "growth", 30)
	if _, err := f.contract.SubmitStep(ctx, open, request_models.SubmitStepRequest{
		Step: "client-info", BusinessName: "Shop", OwnerName: "Ada", WhatsappNumber: "08012345678",
	}); err != nil {
		t.Fatalf("client-info failed: %v", err)
	}

	f.clock.Advance(48 * time.Hour)

	svc := NewDashboardService(f.repo, "NGN", "UTC", f.clock.Now)
	report, err := svc.BuildDashboard(ctx, resp.TimeRange{})
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}

	k := report.KPIs
	if k.TotalContracts != 3 || k.Paid != 1 || k.Expired != 1 || k.InfoSubmitted != 1 || k.Pending != 0 {
		t.Errorf("Unexpected KPIs %+v", k)
	}
	if k.CreatedInRange != 3 || k.PaidInRange != 1 {
		t.Errorf("Unexpected range counts %+v", k)
	}
	if report.Range.Interval != "day" || report.Range.Timezone != "UTC" {
		t.Errorf("Expected normalized range, got %+v", report.Range)
	}
	if !report.Range.End.Equal(f.clock.Now()) || !report.Range.Start.Equal(f.clock.Now().AddDate(0, 0, -30)) {
		t.Errorf("Expected 30 day window ending now, got %+v", report.Range)
	}
	if report.Collected.Currency != "NGN" || len(report.Collected.Points) != 1 || report.Collected.Total != 0 {
		t.Errorf("Unexpected collected series %+v", report.Collected)
	}
	if len(report.PackageMix) != 1 || report.PackageMix[0].Package != "testing" || report.PackageMix[0].Percent != 100 {
		t.Errorf("Unexpected package mix %+v", report.PackageMix)
	}
	if len(report.RecentPayments) != 1 || report.RecentPayments[0].Token != paid {
		t.Errorf("Unexpected recent payments %+v", report.RecentPayments)
	}
}

func TestBuildDashboardSwapsReversedRange(t *testing.T) {
	f := newFixture()
	svc := NewDashboardService(f.repo, "NGN", "UTC", f.clock.Now)

	start := f.clock.Now()
	end := start.AddDate(0, 0, -7)
	report, err := svc.BuildDashboard(context.Background(), resp.TimeRange{Start: start, End: end, Interval: "week"})
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}
	if !report.Range.Start.Equal(end) || !report.Range.End.Equal(start) {
		t.Errorf("Expected range to be swapped, got %+v", report.Range)
	}
	if report.KPIs.TotalContracts != 0 || report.KPIs.ConversionPct != 0 {
		t.Errorf("Expected empty KPIs, got %+v", report.KPIs)
	}
}
