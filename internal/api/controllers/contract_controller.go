package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"contractflow/internal/models/request_models"
	"contractflow/internal/services"
	"contractflow/pkg/utils"
	"github.com/gin-gonic/gin"
)

type ContractController struct {
	contractService services.ContractService
	catalog         *services.PackageCatalog
}

func NewContractController(contractService services.ContractService, catalog *services.PackageCatalog) *ContractController {
	return &ContractController{
		contractService: contractService,
		catalog:         catalog,
	}
}

// ListPackages godoc
// @Summary List packages
// @Tags Contracts
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /packages [get]
func (cc *ContractController) ListPackages(c *gin.Context) {
	utils.RespondSuccess(c, cc.catalog.List(), "Packages retrieved successfully")
}

// CreateContract godoc
// @Summary Create a contract link
// @Description Creates a contract for a package and returns its capability token
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body request_models.CreateContractRequest true "Contract payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /contract [post]
func (cc *ContractController) CreateContract(c *gin.Context) {
	var req request_models.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := cc.contractService.CreateContract(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Contract created successfully")
}

// GetContract godoc
// @Summary Get a contract by token
// @Description Returns the client-facing projection. Expired contracts answer 410 with the projection.
// @Tags Contracts
// @Produce json
// @Param token path string true "Contract token"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 410 {object} utils.APIResponse
// @Router /contract/{token} [get]
func (cc *ContractController) GetContract(c *gin.Context) {
	view, err := cc.contractService.GetContract(c.Request.Context(), c.Param("token"))
	if errors.Is(err, utils.ErrContractExpired) && view != nil {
		utils.RespondWithStatus(c, http.StatusGone, view, "This contract link has expired")
		return
	}
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, view, "Contract retrieved successfully")
}

// SubmitStep godoc
// @Summary Submit a contract step
// @Tags Contracts
// @Accept json
// @Produce json
// @Param token path string true "Contract token"
// @Param request body request_models.SubmitStepRequest true "Step payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 410 {object} utils.APIResponse
// @Router /contract/{token}/submit [post]
func (cc *ContractController) SubmitStep(c *gin.Context) {
	var req request_models.SubmitStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := cc.contractService.SubmitStep(c.Request.Context(), c.Param("token"), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Step saved")
}

// GetDocument godoc
// @Summary Download the agreement
// @Tags Contracts
// @Produce html
// @Param token path string true "Contract token"
// @Router /contract/{token}/document [get]
func (cc *ContractController) GetDocument(c *gin.Context) {
	doc, filename, err := cc.contractService.RenderDocument(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// UploadAsset godoc
// @Summary Upload a logo or payment receipt
// @Tags Contracts
// @Accept multipart/form-data
// @Produce json
// @Param token path string true "Contract token"
// @Param kind query string true "logo or receipt"
// @Param file formData file true "File"
// @Success 200 {object} utils.APIResponse
// @Router /contract/{token}/assets [post]
func (cc *ContractController) UploadAsset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	resp, err := cc.contractService.UploadAsset(
		c.Request.Context(),
		c.Param("token"),
		c.Query("kind"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		fileHeader.Size,
	)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "File uploaded successfully")
}
