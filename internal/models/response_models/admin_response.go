package response_models

import (
	"encoding/json"
	"time"
)

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

// AdminContract is the full back-office view of a contract.
type AdminContract struct {
	Token        string    `json:"token"`
	Status       string    `json:"status"`
	Expired      bool      `json:"expired"`
	Package      string    `json:"package"`
	PackageName  string    `json:"packageName"`
	PackagePrice int64     `json:"packagePrice"`
	Currency     string    `json:"currency"`
	ClientName   string    `json:"clientName"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`

	AgreedToTerms bool       `json:"agreedToTerms"`
	AgreedAt      *time.Time `json:"agreedAt,omitempty"`

	BusinessName   string `json:"businessName,omitempty"`
	OwnerName      string `json:"ownerName,omitempty"`
	WhatsappNumber string `json:"whatsappNumber,omitempty"`
	Email          string `json:"email,omitempty"`

	LogoURL      string `json:"logoUrl,omitempty"`
	BrandColor   string `json:"brandColor,omitempty"`
	Description  string `json:"description,omitempty"`
	ProvideLater bool   `json:"provideLater"`

	PaymentMethod      string          `json:"paymentMethod,omitempty"`
	PaymentStatus      string          `json:"paymentStatus,omitempty"`
	ReceiptURL         string          `json:"receiptUrl,omitempty"`
	SubmittedAt        *time.Time      `json:"submittedAt,omitempty"`
	PaymentInitiatedAt *time.Time      `json:"paymentInitiatedAt,omitempty"`
	TransactionRef     string          `json:"transactionRef,omitempty"`
	AmountPaid         *int64          `json:"amountPaid,omitempty"`
	PaidAt             *time.Time      `json:"paidAt,omitempty"`
	TransactionID      string          `json:"transactionId,omitempty"`
	PaymentDetails     json.RawMessage `json:"paymentDetails,omitempty"`
}

type UploadAssetResponse struct {
	URL string `json:"url"`
}
