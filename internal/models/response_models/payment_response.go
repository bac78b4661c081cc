package response_models

type InitializePaymentResponse struct {
	RedirectURL    string `json:"redirectUrl"`
	TransactionRef string `json:"transactionRef"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

// Verification outcomes carried back to the buyer-facing page.
const (
	OutcomeSuccess   = "success"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
	OutcomeError     = "error"
)

type VerifyPaymentResult struct {
	Outcome     string
	RedirectURL string
}
