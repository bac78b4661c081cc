package request_models

type CreateContractRequest struct {
	ClientName string `json:"clientName" binding:"required,max=255"`
	Package    string `json:"package" binding:"required"`
	// ExpiryDays falls back to the configured default when zero.
	ExpiryDays int `json:"expiryDays"`
}

// SubmitStepRequest is the union of every step's fields; only the fields of
// Step are read.
type SubmitStepRequest struct {
	Step string `json:"step" binding:"required"`

	AgreedToTerms *bool `json:"agreedToTerms"`

	BusinessName   string `json:"businessName"`
	OwnerName      string `json:"ownerName"`
	WhatsappNumber string `json:"whatsappNumber"`
	Email          string `json:"email"`

	LogoURL      string `json:"logoUrl"`
	BrandColor   string `json:"brandColor"`
	Description  string `json:"description"`
	ProvideLater *bool  `json:"provideLater"`

	PaymentMethod string `json:"paymentMethod"`
	ReceiptURL    string `json:"receiptUrl"`
}
