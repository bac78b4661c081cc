package request_models

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ConfirmManualPaymentRequest struct {
	// AmountPaid defaults to the deposit when omitted.
	AmountPaid *int64 `json:"amountPaid" binding:"omitempty,min=0"`
	Reference  string `json:"reference" binding:"max=96"`
}

type ListContractsRequest struct {
	Status string `form:"status"`
}
