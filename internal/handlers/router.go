package handlers

import (
	"net/http"
	"time"

	"crowdfund/internal/auth"
	"crowdfund/internal/logger"
	"crowdfund/internal/models"
	"crowdfund/internal/realtime"
	"crowdfund/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries everything the HTTP layer needs
type RouterConfig struct {
	AuthService       *services.AuthService
	UserService       *services.UserService
	AdminService      *services.AdminService
	CampaignService   *services.CampaignService
	DonationService   *services.DonationService
	EngagementService *services.EngagementService
	Hub               *realtime.Hub

	AllowedOrigins []string
	PublicURL      string
	UploadRoot     string
}

// SetupRouter builds the gin engine with every route mounted
func SetupRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger())
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws"})))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	if cfg.UploadRoot != "" {
		router.Static("/uploads", cfg.UploadRoot)
	}

	authHandler := NewAuthHandler(cfg.AuthService)
	userHandler := NewUserHandler(cfg.UserService, cfg.CampaignService, cfg.DonationService)
	adminHandler := NewAdminHandler(cfg.AdminService, cfg.CampaignService, cfg.DonationService)
	campaignHandler := NewCampaignHandler(cfg.CampaignService, cfg.DonationService, cfg.EngagementService, cfg.PublicURL)
	liveHandler := NewLiveHandler(cfg.Hub, cfg.CampaignService)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/token", authHandler.Token)
		authRoutes.DELETE("/logout", authHandler.Logout)
	}

	campaigns := api.Group("/campaigns")
	{
		campaigns.GET("", campaignHandler.ListCampaigns)
		campaigns.GET("/categories", campaignHandler.ListCategories)
		campaigns.GET("/category/:name", campaignHandler.ListByCategory)
		campaigns.GET("/:id", campaignHandler.GetCampaign)
		campaigns.GET("/:id/campaigner", campaignHandler.GetCampaigner)
		campaigns.GET("/:id/beneficiary", campaignHandler.GetBeneficiary)
		campaigns.GET("/:id/donors", campaignHandler.RecentDonors)
		campaigns.GET("/:id/comments", campaignHandler.ListComments)
		campaigns.GET("/:id/updates", campaignHandler.ListUpdates)
		campaigns.GET("/:id/shares", campaignHandler.ListShares)
		campaigns.GET("/:id/qrcode", campaignHandler.QRCode)
	}

	protectedCampaigns := api.Group("/campaigns")
	protectedCampaigns.Use(auth.AuthMiddleware())
	{
		protectedCampaigns.POST("", campaignHandler.CreateCampaign)
		protectedCampaigns.POST("/:id/comments", campaignHandler.PostComment)
		protectedCampaigns.POST("/:id/shares", campaignHandler.PostShare)
		protectedCampaigns.POST("/:id/updates", auth.RequireRole(string(models.UserRoleBoth)), campaignHandler.PostUpdate)
	}

	api.GET("/donations/:campaignId", campaignHandler.ListDonations)
	api.POST("/donations/:campaignId", auth.AuthMiddleware(), campaignHandler.Donate)

	userRoutes := api.Group("/user")
	userRoutes.Use(auth.AuthMiddleware())
	{
		userRoutes.GET("/profile", userHandler.GetProfile)
		userRoutes.PUT("/profile", userHandler.UpdateProfile)
		userRoutes.GET("/campaigns", userHandler.GetCampaigns)
		userRoutes.GET("/campaigns/:id", auth.RequireRole(string(models.UserRoleBoth)), userHandler.GetCampaign)
		userRoutes.GET("/donations", userHandler.GetDonations)
		userRoutes.GET("/dashboard-stats/:id", auth.RequireRole(string(models.UserRoleBoth)), userHandler.DashboardStats)
	}

	api.POST("/admin/login", adminHandler.Login)
	api.POST("/admin/register", adminHandler.Register)

	admin := api.Group("/admin")
	admin.Use(auth.AdminMiddleware())
	{
		admin.GET("/users", adminHandler.GetUsers)
		admin.GET("/campaigns", adminHandler.GetCampaigns)
		admin.GET("/mycampaigns", adminHandler.GetMyCampaigns)
		admin.PATCH("/campaign/:id/approve", adminHandler.Approve)
		admin.PATCH("/campaign/:id/reject", adminHandler.Reject)
		admin.PATCH("/campaign/:id/warning", adminHandler.SetWarning)
		admin.GET("/donations", adminHandler.GetDonations)
	}

	router.GET("/ws/campaigns/:id", liveHandler.Stream)

	router.NoRoute(notFound)

	return router
}
