package response_models

import (
	"time"
)

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// "day" | "week" | "month"
	Interval string `json:"interval"`
	// Timezone used for bucketing, defaults to the document timezone.
	Timezone string `json:"timezone,omitempty"`
}

// KPIBlock counts contracts by derived status, so expired contracts are
// only counted under Expired.
type KPIBlock struct {
	TotalContracts int64 `json:"totalContracts"`
	Pending        int64 `json:"pending"`
	InfoSubmitted  int64 `json:"infoSubmitted"`
	PaymentPending int64 `json:"paymentPending"`
	Paid           int64 `json:"paid"`
	Expired        int64 `json:"expired"`

	CreatedInRange int64   `json:"createdInRange"`
	PaidInRange    int64   `json:"paidInRange"`
	ConversionPct  float64 `json:"conversionPct"` // paid / total * 100
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
	Count  int64     `json:"count"`
}

type CollectedSeries struct {
	Currency string        `json:"currency"`
	Points   []SeriesPoint `json:"points"`
	Total    int64         `json:"total"`
}

type PackageMixItem struct {
	Package     string  `json:"package"`
	PackageName string  `json:"packageName"`
	Count       int64   `json:"count"`
	Percent     float64 `json:"percent"`
	Collected   int64   `json:"collected"`
}

type RecentPayment struct {
	Token         string     `json:"token"`
	BusinessName  string     `json:"businessName"`
	PackageName   string     `json:"packageName"`
	PaidAt        *time.Time `json:"paidAt"`
	AmountPaid    int64      `json:"amountPaid"`
	Currency      string     `json:"currency"`
	PaymentMethod string     `json:"paymentMethod"`
	TransactionID string     `json:"transactionId,omitempty"`
}

type DashboardReport struct {
	Range          TimeRange        `json:"range"`
	KPIs           KPIBlock         `json:"kpis"`
	Collected      CollectedSeries  `json:"collected"`
	PackageMix     []PackageMixItem `json:"packageMix"`
	RecentPayments []RecentPayment  `json:"recentPayments"`
}
