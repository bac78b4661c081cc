package db_models

import (
	"time"

	"gorm.io/datatypes"
)

type ContractStatus string

const (
	StatusPending        ContractStatus = "pending"
	StatusInfoSubmitted  ContractStatus = "info_submitted"
	StatusPaymentPending ContractStatus = "payment_pending"
	StatusPaid           ContractStatus = "paid"
	StatusExpired        ContractStatus = "expired"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInfoSubmitted, StatusPaymentPending, StatusPaid, StatusExpired:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusNone      PaymentStatus = ""
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
)

// Payment methods handled without a provider round trip. Any other method
// value is the name of the configured card gateway.
const (
	PaymentMethodTesting = "testing"
	PaymentMethodManual  = "manual"
)

// Contract is the only persisted entity, one row per token.
type Contract struct {
	Token  string         `gorm:"primaryKey;size:32"`
	Status ContractStatus `gorm:"size:20;index;not null"`

	// Snapshot of the catalog entry at creation time.
	Package      string `gorm:"size:32;not null"`
	PackageName  string `gorm:"size:128;not null"`
	PackagePrice int64  `gorm:"not null"`
	Currency     string `gorm:"size:3;not null"`

	ClientName string `gorm:"size:255"` // internal label, never shown to the client

	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time

	// agreement
	AgreedToTerms bool
	AgreedAt      *time.Time

	// client-info
	BusinessName   string `gorm:"size:255"`
	OwnerName      string `gorm:"size:255"`
	WhatsappNumber string `gorm:"size:32"`
	Email          string `gorm:"size:255"`

	// business-setup
	LogoURL      string `gorm:"size:1024"`
	BrandColor   string `gorm:"size:32"`
	Description  string `gorm:"type:text"`
	ProvideLater bool

	// payment
	PaymentMethod      string        `gorm:"size:32"`
	PaymentStatus      PaymentStatus `gorm:"size:20;index"`
	ReceiptURL         string        `gorm:"size:1024"`
	SubmittedAt        *time.Time
	PaymentInitiatedAt *time.Time
	TransactionRef     string `gorm:"size:96;index"`

	// Written only from a server-verified confirmation.
	AmountPaid     *int64
	PaidAt         *time.Time
	TransactionID  string         `gorm:"size:64;index"`
	PaymentDetails datatypes.JSON `gorm:"type:jsonb"`
}

func (Contract) TableName() string { return "contracts" }

func (c *Contract) HasClientInfo() bool {
	return c.BusinessName != "" && c.OwnerName != "" && c.WhatsappNumber != ""
}

func (c *Contract) HasBusinessSetup() bool {
	return c.LogoURL != "" || c.ProvideLater || c.BrandColor != "" || c.Description != ""
}

func (c *Contract) IsPaid() bool {
	return c.PaymentStatus == PaymentStatusConfirmed
}

// FieldStatus is the status implied by the payment and client-info fields.
// Stores persist it on every step write.
func (c *Contract) FieldStatus() ContractStatus {
	switch {
	case c.PaymentStatus == PaymentStatusConfirmed:
		return StatusPaid
	case c.PaymentStatus == PaymentStatusPending:
		return StatusPaymentPending
	case c.HasClientInfo():
		return StatusInfoSubmitted
	default:
		return StatusPending
	}
}
