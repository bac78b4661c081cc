package response_models

import "time"

type CreateContractResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Link      string    `json:"link"`
}

// ContractView is what the anonymous token holder may read: the package,
// pricing, status, deadline and the fields the client submitted.
type ContractView struct {
	Token         string    `json:"token"`
	Package       string    `json:"package"`
	PackageName   string    `json:"packageName"`
	PackagePrice  int64     `json:"packagePrice"`
	DepositAmount int64     `json:"depositAmount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CurrentStep   string    `json:"currentStep"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Expired       bool      `json:"expired"`

	AgreedToTerms bool       `json:"agreedToTerms"`
	AgreedAt      *time.Time `json:"agreedAt,omitempty"`

	BusinessName   string `json:"businessName,omitempty"`
	OwnerName      string `json:"ownerName,omitempty"`
	WhatsappNumber string `json:"whatsappNumber,omitempty"`
	Email          string `json:"email,omitempty"`

	HasLogo      bool   `json:"hasLogo"`
	BrandColor   string `json:"brandColor,omitempty"`
	Description  string `json:"description,omitempty"`
	ProvideLater bool   `json:"provideLater"`

	PaymentMethod string `json:"paymentMethod,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

type StepResult struct {
	Status      string `json:"status"`
	CurrentStep string `json:"currentStep"`
}
