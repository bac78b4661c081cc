package controllers

import (
	"net/http"

	"contractflow/internal/models/request_models"
	"contractflow/internal/services"
	"contractflow/pkg/utils"
	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// InitializePayment godoc
// @Summary Start a card payment for the deposit
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.InitializePaymentRequest true "Buyer details"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 410 {object} utils.APIResponse
// @Router /payment/initialize [post]
func (p *PaymentController) InitializePayment(c *gin.Context) {
	var request request_models.InitializePaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := p.paymentService.InitializePayment(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Payment session created")
}

// VerifyPayment is the provider's browser redirect target. It always answers
// with a redirect to the contract page.
// @Summary Verify a gateway payment
// @Tags Payments
// @Param token query string false "Contract token"
// @Param transaction_id query string false "Provider transaction id"
// @Param tx_ref query string false "Transaction reference"
// @Param status query string false "Provider status hint"
// @Success 302
// @Router /payment/verify [get]
func (p *PaymentController) VerifyPayment(c *gin.Context) {
	var query request_models.VerifyPaymentQuery
	_ = c.ShouldBindQuery(&query)
	if query.TransactionID == "" {
		query.TransactionID = c.Query("transactionId")
	}

	result := p.paymentService.VerifyPayment(c.Request.Context(), query)
	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, result.RedirectURL)
}
