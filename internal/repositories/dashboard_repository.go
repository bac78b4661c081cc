package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	dbm "contractflow/internal/models/db_models"
	"contractflow/pkg/utils"
)

type DashboardRepository interface {
	// Counts by stored status; expired rows are counted under the status
	// they were left in.
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountExpiredByStatus(ctx context.Context, now time.Time) ([]StatusCount, error)
	CountCreated(ctx context.Context, start, end time.Time) (int64, error)

	// Deposits collected per bucket, by paid_at.
	CollectedSeries(ctx context.Context, start, end time.Time, interval string, loc *time.Location) ([]BucketSum, error)

	// Paid contracts per package.
	PackageMix(ctx context.Context) ([]PackageMixRow, error)

	RecentPaid(ctx context.Context, limit int) ([]dbm.Contract, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type StatusCount struct {
	Status dbm.ContractStatus `gorm:"column:status"`
	Count  int64              `gorm:"column:count"`
}

type BucketSum struct {
	Bucket time.Time `gorm:"column:bucket"`
	Sum    int64     `gorm:"column:sum"`
	Count  int64     `gorm:"column:count"`
}

type PackageMixRow struct {
	Package     string `gorm:"column:package"`
	PackageName string `gorm:"column:package_name"`
	Count       int64  `gorm:"column:count"`
	Sum         int64  `gorm:"column:sum"`
}

func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", utils.ErrDatabaseError, op, err)
}

// ---------- Counts ----------
func (r *dashboardRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&dbm.Contract{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	return rows, dbErr("count by status", err)
}

func (r *dashboardRepository) CountExpiredByStatus(ctx context.Context, now time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&dbm.Contract{}).
		Select("status, COUNT(*) AS count").
		Where("expires_at < ? AND status <> ?", now, dbm.StatusPaid).
		Group("status").
		Find(&rows).Error
	return rows, dbErr("count expired", err)
}

func (r *dashboardRepository) CountCreated(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Contract{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&n).Error
	return n, dbErr("count created", err)
}

// ---------- Series ----------
func (r *dashboardRepository) CollectedSeries(ctx context.Context, start, end time.Time, interval string, loc *time.Location) ([]BucketSum, error) {
	var rows []BucketSum
	// timezone() yields local wall time, so bucket boundaries follow loc.
	err := r.db.WithContext(ctx).
		Model(&dbm.Contract{}).
		Select("date_trunc(?, timezone(?, paid_at)) AS bucket, COALESCE(SUM(amount_paid), 0) AS sum, COUNT(*) AS count", interval, loc.String()).
		Where("status = ?", dbm.StatusPaid).
		Where("paid_at IS NOT NULL").
		Where("paid_at BETWEEN ? AND ?", start, end).
		Group("bucket").
		Order("bucket ASC").
		Find(&rows).Error
	return rows, dbErr("collected series", err)
}

// ---------- Package mix ----------
func (r *dashboardRepository) PackageMix(ctx context.Context) ([]PackageMixRow, error) {
	var rows []PackageMixRow
	err := r.db.WithContext(ctx).
		Model(&dbm.Contract{}).
		Select("package, package_name, COUNT(*) AS count, COALESCE(SUM(amount_paid), 0) AS sum").
		Where("status = ?", dbm.StatusPaid).
		Group("package, package_name").
		Order("count DESC").
		Find(&rows).Error
	return rows, dbErr("package mix", err)
}

// ---------- Recent payments ----------
func (r *dashboardRepository) RecentPaid(ctx context.Context, limit int) ([]dbm.Contract, error) {
	var rows []dbm.Contract
	err := r.db.WithContext(ctx).
		Where("status = ?", dbm.StatusPaid).
		Where("paid_at IS NOT NULL").
		Order("paid_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, dbErr("recent payments", err)
}
