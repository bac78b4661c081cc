package repositories

import (
	"context"
	"sort"
	"time"

	dbm "contractflow/internal/models/db_models"
)

// The in-memory store answers the dashboard queries by scanning.

func (s *MemoryContractRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	return s.countBy(func(c *dbm.Contract) bool { return true }), nil
}

func (s *MemoryContractRepository) CountExpiredByStatus(ctx context.Context, now time.Time) ([]StatusCount, error) {
	return s.countBy(func(c *dbm.Contract) bool {
		return c.ExpiresAt.Before(now) && c.Status != dbm.StatusPaid
	}), nil
}

func (s *MemoryContractRepository) CountCreated(ctx context.Context, start, end time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.contracts {
		if !c.CreatedAt.Before(start) && !c.CreatedAt.After(end) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryContractRepository) CollectedSeries(ctx context.Context, start, end time.Time, interval string, loc *time.Location) ([]BucketSum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := make(map[time.Time]*BucketSum)
	for _, c := range s.contracts {
		if c.Status != dbm.StatusPaid || c.PaidAt == nil {
			continue
		}
		if c.PaidAt.Before(start) || c.PaidAt.After(end) {
			continue
		}
		key := TruncateBucket(*c.PaidAt, interval, loc)
		b, ok := buckets[key]
		if !ok {
			b = &BucketSum{Bucket: key}
			buckets[key] = b
		}
		if c.AmountPaid != nil {
			b.Sum += *c.AmountPaid
		}
		b.Count++
	}

	rows := make([]BucketSum, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, *b)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Bucket.Before(rows[j].Bucket) })
	return rows, nil
}

func (s *MemoryContractRepository) PackageMix(ctx context.Context) ([]PackageMixRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byPackage := make(map[string]*PackageMixRow)
	for _, c := range s.contracts {
		if c.Status != dbm.StatusPaid {
			continue
		}
		row, ok := byPackage[c.Package]
		if !ok {
			row = &PackageMixRow{Package: c.Package, PackageName: c.PackageName}
			byPackage[c.Package] = row
		}
		row.Count++
		if c.AmountPaid != nil {
			row.Sum += *c.AmountPaid
		}
	}

	rows := make([]PackageMixRow, 0, len(byPackage))
	for _, r := range byPackage {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Package < rows[j].Package
	})
	return rows, nil
}

func (s *MemoryContractRepository) RecentPaid(ctx context.Context, limit int) ([]dbm.Contract, error) {
	paid := s.list(0, func(c *dbm.Contract) bool {
		return c.Status == dbm.StatusPaid && c.PaidAt != nil
	})
	sort.Slice(paid, func(i, j int) bool { return paid[i].PaidAt.After(*paid[j].PaidAt) })
	if limit > 0 && len(paid) > limit {
		paid = paid[:limit]
	}
	return paid, nil
}

func (s *MemoryContractRepository) countBy(keep func(*dbm.Contract) bool) []StatusCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[dbm.ContractStatus]int64)
	for _, c := range s.contracts {
		if keep(c) {
			counts[c.Status]++
		}
	}
	rows := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		rows = append(rows, StatusCount{Status: status, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Status < rows[j].Status })
	return rows
}

// TruncateBucket mirrors postgres date_trunc on local wall time: weeks start
// on Monday.
func TruncateBucket(t time.Time, interval string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	switch interval {
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case "week":
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return day
	}
}
