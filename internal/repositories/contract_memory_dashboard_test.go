package repositories

import (
	"context"
	"testing"
	"time"

	dbm "contractflow/internal/models/db_models"
)

func paidAt(c *dbm.Contract, at time.Time, amount int64) *dbm.Contract {
	c.Status = dbm.StatusPaid
	c.PaymentStatus = dbm.PaymentStatusConfirmed
	c.PaidAt = &at
	c.AmountPaid = &amount
	return c
}

func seedDashboard(t *testing.T) (*MemoryContractRepository, time.Time) {
	t.Helper()
	ctx := context.Background()
	repo := NewMemoryContractRepository()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) // a Monday

	starter := newContract("s1", base)
	starter.Package, starter.PackageName = "starter", "Starter"

	contracts := []*dbm.Contract{
		paidAt(newContract("g1", base), base.Add(2*time.Hour), 145000),
		paidAt(newContract("g2", base), base.AddDate(0, 0, 8), 145000),
		paidAt(starter, base.AddDate(0, 0, 1), 75000),
		newContract("p1", base), // expires base+7d
		newContract("p2", base.AddDate(0, 0, 10)),
	}
	for _, c := range contracts {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	return repo, base
}

func TestMemoryDashboardCounts(t *testing.T) {
	repo, base := seedDashboard(t)
	ctx := context.Background()
	now := base.AddDate(0, 0, 12)

	byStatus, _ := repo.CountByStatus(ctx)
	got := map[dbm.ContractStatus]int64{}
	for _, r := range byStatus {
		got[r.Status] = r.Count
	}
	if got[dbm.StatusPaid] != 3 || got[dbm.StatusPending] != 2 {
		t.Errorf("Unexpected status counts %v", got)
	}

	expired, _ := repo.CountExpiredByStatus(ctx, now)
	if len(expired) != 1 || expired[0].Status != dbm.StatusPending || expired[0].Count != 1 {
		t.Errorf("Expected one expired pending contract, got %+v", expired)
	}

	created, _ := repo.CountCreated(ctx, base, base.AddDate(0, 0, 1))
	if created != 4 {
		t.Errorf("Expected 4 created in first day, got %d", created)
	}
}

func TestMemoryDashboardCollectedSeries(t *testing.T) {
	repo, base := seedDashboard(t)
	ctx := context.Background()

	weeks, _ := repo.CollectedSeries(ctx, base, base.AddDate(0, 0, 30), "week", time.UTC)
	if len(weeks) != 2 {
		t.Fatalf("Expected 2 weekly buckets, got %+v", weeks)
	}
	if weeks[0].Sum != 220000 || weeks[0].Count != 2 || !weeks[0].Bucket.Equal(base.Truncate(24*time.Hour)) {
		t.Errorf("Unexpected first week %+v", weeks[0])
	}
	if weeks[1].Sum != 145000 {
		t.Errorf("Unexpected second week %+v", weeks[1])
	}

	days, _ := repo.CollectedSeries(ctx, base, base.AddDate(0, 0, 3), "day", time.UTC)
	if len(days) != 2 {
		t.Errorf("Expected 2 daily buckets inside range, got %+v", days)
	}
}

func TestMemoryDashboardMixAndRecent(t *testing.T) {
	repo, _ := seedDashboard(t)
	ctx := context.Background()

	mix, _ := repo.PackageMix(ctx)
	if len(mix) != 2 || mix[0].Package != "growth" || mix[0].Count != 2 || mix[0].Sum != 290000 {
		t.Errorf("Unexpected package mix %+v", mix)
	}

	recent, _ := repo.RecentPaid(ctx, 2)
	if len(recent) != 2 || recent[0].Token != "g2" || recent[1].Token != "s1" {
		t.Errorf("Expected newest payments first, got %+v", recent)
	}
}

func TestTruncateBucket(t *testing.T) {
	lagos := time.FixedZone("WAT", 3600)
	ts := time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC) // Thursday 00:30 in WAT

	tests := []struct {
		interval string
		want     time.Time
	}{
		{"day", time.Date(2026, 3, 5, 0, 0, 0, 0, lagos)},
		{"week", time.Date(2026, 3, 2, 0, 0, 0, 0, lagos)},
		{"month", time.Date(2026, 3, 1, 0, 0, 0, 0, lagos)},
	}
	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			if got := TruncateBucket(ts, tt.interval, lagos); !got.Equal(tt.want) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
