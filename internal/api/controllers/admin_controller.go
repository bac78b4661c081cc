package controllers

import (
	"net/http"

	"contractflow/internal/models/request_models"
	"contractflow/internal/services"
	"contractflow/pkg/utils"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	adminService    services.AdminServiceInterface
	contractService services.ContractService
}

func NewAdminController(adminService services.AdminServiceInterface, contractService services.ContractService) *AdminController {
	return &AdminController{
		adminService:    adminService,
		contractService: contractService,
	}
}

// Login godoc
// @Summary Back-office login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.AdminLoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /admin/login [post]
func (a *AdminController) Login(c *gin.Context) {
	var req request_models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := a.adminService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Login successful")
}

// ListContracts godoc
// @Summary List contracts
// @Tags Admin
// @Produce json
// @Param status query string false "pending, info_submitted, payment_pending, paid or expired"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/contracts [get]
func (a *AdminController) ListContracts(c *gin.Context) {
	var req request_models.ListContractsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	contracts, err := a.contractService.ListContracts(c.Request.Context(), req.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, contracts, "Contracts retrieved successfully")
}

// GetContract godoc
// @Summary Get the full contract record
// @Tags Admin
// @Produce json
// @Param token path string true "Contract token"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/contracts/{token} [get]
func (a *AdminController) GetContract(c *gin.Context) {
	contract, err := a.contractService.GetFullContract(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, contract, "Contract retrieved successfully")
}

// ConfirmPayment godoc
// @Summary Confirm a manual bank transfer
// @Tags Admin
// @Accept json
// @Produce json
// @Param token path string true "Contract token"
// @Param request body request_models.ConfirmManualPaymentRequest false "Confirmation details"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/contracts/{token}/confirm-payment [post]
func (a *AdminController) ConfirmPayment(c *gin.Context) {
	var req request_models.ConfirmManualPaymentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	contract, err := a.contractService.ConfirmManualPayment(c.Request.Context(), c.Param("token"), c.GetString("username"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, contract, "Payment confirmed")
}
