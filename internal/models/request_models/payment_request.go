package request_models

type InitializePaymentRequest struct {
	Token string `json:"token" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// VerifyPaymentQuery holds the provider redirect parameters. They are only
// hints for locating the transaction, never proof of payment.
type VerifyPaymentQuery struct {
	Token         string `form:"token"`
	TransactionID string `form:"transaction_id"`
	TxRef         string `form:"tx_ref"`
	Status        string `form:"status"`
}
