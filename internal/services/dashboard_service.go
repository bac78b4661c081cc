package services

import (
	"context"

	dbm "contractflow/internal/models/db_models"
	resp "contractflow/internal/models/response_models"
	"contractflow/internal/repositories"
	"contractflow/pkg/utils"
)

const recentPaymentsLimit = 10

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo      repositories.DashboardRepository
	currency  string
	defaultTZ string
	clock     utils.Clock
}

func NewDashboardService(repo repositories.DashboardRepository, currency, defaultTZ string, clock utils.Clock) DashboardService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &dashboardService{repo: repo, currency: currency, defaultTZ: defaultTZ, clock: clock}
}

// normalizeRange ensures sane defaults and ordering
func (s *dashboardService) normalizeRange(r resp.TimeRange) resp.TimeRange {
	out := r
	if out.Interval == "" {
		out.Interval = "day"
	}
	if out.Timezone == "" {
		out.Timezone = s.defaultTZ
	}
	if out.End.IsZero() {
		out.End = s.clock()
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30) // last 30 days default
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error) {
	rng = s.normalizeRange(rng)
	loc := utils.LoadLocation(rng.Timezone, 0)
	now := s.clock()

	// ---------- Status counts ----------
	stored, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	expired, err := s.repo.CountExpiredByStatus(ctx, now)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[dbm.ContractStatus]int64)
	var total int64
	for _, r := range stored {
		byStatus[r.Status] += r.Count
		total += r.Count
	}
	for _, r := range expired {
		byStatus[r.Status] -= r.Count
		byStatus[dbm.StatusExpired] += r.Count
	}

	created, err := s.repo.CountCreated(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}

	// ---------- Collected ----------
	rows, err := s.repo.CollectedSeries(ctx, rng.Start, rng.End, rng.Interval, loc)
	if err != nil {
		return nil, err
	}
	collected := resp.CollectedSeries{Currency: s.currency, Points: []resp.SeriesPoint{}}
	var paidInRange int64
	for _, r := range rows {
		collected.Points = append(collected.Points, resp.SeriesPoint{Bucket: r.Bucket, Value: r.Sum, Count: r.Count})
		collected.Total += r.Sum
		paidInRange += r.Count
	}

	// ---------- Package mix ----------
	mixRows, err := s.repo.PackageMix(ctx)
	if err != nil {
		return nil, err
	}
	var totalPaid float64
	for _, r := range mixRows {
		totalPaid += float64(r.Count)
	}
	mix := make([]resp.PackageMixItem, 0, len(mixRows))
	for _, r := range mixRows {
		var pct float64
		if totalPaid > 0 {
			pct = float64(r.Count) * 100.0 / totalPaid
		}
		mix = append(mix, resp.PackageMixItem{
			Package:     r.Package,
			PackageName: r.PackageName,
			Count:       r.Count,
			Percent:     pct,
			Collected:   r.Sum,
		})
	}

	// ---------- Recent payments ----------
	paid, err := s.repo.RecentPaid(ctx, recentPaymentsLimit)
	if err != nil {
		return nil, err
	}
	recent := make([]resp.RecentPayment, 0, len(paid))
	for _, c := range paid {
		var amount int64
		if c.AmountPaid != nil {
			amount = *c.AmountPaid
		}
		recent = append(recent, resp.RecentPayment{
			Token:         c.Token,
			BusinessName:  firstNonEmpty(c.BusinessName, c.ClientName),
			PackageName:   c.PackageName,
			PaidAt:        c.PaidAt,
			AmountPaid:    amount,
			Currency:      c.Currency,
			PaymentMethod: c.PaymentMethod,
			TransactionID: c.TransactionID,
		})
	}

	var conversion float64
	if total > 0 {
		conversion = float64(byStatus[dbm.StatusPaid]) * 100.0 / float64(total)
	}

	return &resp.DashboardReport{
		Range: rng,
		KPIs: resp.KPIBlock{
			TotalContracts: total,
			Pending:        byStatus[dbm.StatusPending],
			InfoSubmitted:  byStatus[dbm.StatusInfoSubmitted],
			PaymentPending: byStatus[dbm.StatusPaymentPending],
			Paid:           byStatus[dbm.StatusPaid],
			Expired:        byStatus[dbm.StatusExpired],
			CreatedInRange: created,
			PaidInRange:    paidInRange,
			ConversionPct:  conversion,
		},
		Collected:      collected,
		PackageMix:     mix,
		RecentPayments: recent,
	}, nil
}
