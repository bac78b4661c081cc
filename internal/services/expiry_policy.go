package services

import (
	"time"

	"contractflow/internal/models/db_models"
)

// Step names accepted by SubmitStep, plus the terminal markers reported in
// currentStep.
const (
	StepAgreement     = "agreement"
	StepClientInfo    = "client-info"
	StepBusinessSetup = "business-setup"
	StepPayment       = "payment"
	StepComplete      = "complete"
	StepExpired       = "expired"
)

// Expired reports whether the link deadline has passed. A paid contract
// never expires.
func Expired(c *db_models.Contract, now time.Time) bool {
	if c.IsPaid() {
		return false
	}
	return now.After(c.ExpiresAt)
}

// StoredStatus is the status computed from the record fields alone. It is
// what gets persisted on every write.
func StoredStatus(c *db_models.Contract) db_models.ContractStatus {
	return c.FieldStatus()
}

// DeriveStatus is StoredStatus with expiry applied at read time.
func DeriveStatus(c *db_models.Contract, now time.Time) db_models.ContractStatus {
	if Expired(c, now) {
		return db_models.StatusExpired
	}
	return StoredStatus(c)
}

// CurrentStep is the first step the client still has to complete.
func CurrentStep(c *db_models.Contract, now time.Time) string {
	switch {
	case c.IsPaid():
		return StepComplete
	case Expired(c, now):
		return StepExpired
	case !c.AgreedToTerms:
		return StepAgreement
	case !c.HasClientInfo():
		return StepClientInfo
	case !c.HasBusinessSetup():
		return StepBusinessSetup
	default:
		return StepPayment
	}
}

// DepositAmount is half the package price, rounded down to whole units.
func DepositAmount(price int64) int64 {
	return price / 2
}
