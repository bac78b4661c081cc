package api

import (
	"net/http"

	"contractflow/internal/api/controllers"
	"contractflow/internal/config"
	"contractflow/internal/services"
	"contractflow/pkg/middleware"
	"contractflow/pkg/utils"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Contract  *controllers.ContractController
	Payment   *controllers.PaymentController
	Admin     *controllers.AdminController
	Dashboard *controllers.DashboardController
}

func NewRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.Minio.MaxUploadMB << 20

	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Server.FrontendURL))

	RegisterRoutes(r, cfg, h)
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, h Handlers) {
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimitWindow())
	public := middleware.RateLimit(limiter)
	adminAuth := middleware.JWTAuthMiddleware([]byte(cfg.Auth.JWTSecret))
	adminRole := middleware.RoleMiddleware(services.RoleAdmin)

	r.GET("/health", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
	})
	r.GET("/packages", h.Contract.ListPackages)

	r.POST("/contract", adminAuth, adminRole, h.Contract.CreateContract)

	contractGroup := r.Group("/contract/:token", public)
	contractGroup.GET("", h.Contract.GetContract)
	contractGroup.POST("/submit", h.Contract.SubmitStep)
	contractGroup.GET("/document", h.Contract.GetDocument)
	contractGroup.POST("/assets", h.Contract.UploadAsset)

	paymentGroup := r.Group("/payment", public)
	paymentGroup.POST("/initialize", h.Payment.InitializePayment)
	paymentGroup.GET("/verify", h.Payment.VerifyPayment)

	r.POST("/admin/login", public, h.Admin.Login)
	r.GET("/admin/dashboard", adminAuth, adminRole, h.Dashboard.GetDashboard)
	adminGroup := r.Group("/admin/contracts", adminAuth, adminRole)
	adminGroup.GET("", h.Admin.ListContracts)
	adminGroup.GET("/:token", h.Admin.GetContract)
	adminGroup.POST("/:token/confirm-payment", h.Admin.ConfirmPayment)

	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, "Route not found")
	})
}
