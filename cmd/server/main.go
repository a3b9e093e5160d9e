package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crowdfund/internal/auth"
	"crowdfund/internal/blobstore"
	"crowdfund/internal/config"
	"crowdfund/internal/database"
	"crowdfund/internal/handlers"
	"crowdfund/internal/jobs"
	"crowdfund/internal/logger"
	"crowdfund/internal/realtime"
	"crowdfund/internal/services"

	"github.com/gin-gonic/gin"
)

const tokenCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg.Log.Level, cfg.Log.Output, cfg.Log.File); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	// Initialize JWT
	auth.InitJWT(auth.JWTConfig{
		AccessSecret:  cfg.App.AccessSecret,
		RefreshSecret: cfg.App.RefreshSecret,
		AccessTTL:     cfg.App.AccessTTL,
		RefreshTTL:    cfg.App.RefreshTTL,
		AdminTTL:      cfg.App.AdminTTL,
	})

	// Connect to database
	dsn := cfg.Database.SQLitePath
	if cfg.Database.Driver == "postgres" {
		dsn = cfg.GetDSN()
	}
	if err := database.Connect(cfg.Database.Driver, dsn); err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations: %v", err)
	}
	if err := database.SeedCategories(database.GetDB()); err != nil {
		logger.Fatal("Failed to seed categories: %v", err)
	}

	store := blobstore.NewLocalStore(cfg.Storage.Root, cfg.Storage.BaseURL)

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Initialize services
	db := database.GetDB()
	authService := services.NewAuthService(db, store, cfg.App.BcryptCost)
	userService := services.NewUserService(db, store, cfg.App.BcryptCost)
	adminService := services.NewAdminService(db, cfg.App.BcryptCost)
	campaignService := services.NewCampaignService(db, store, cfg.Storage.UploadWorkers)
	donationService := services.NewDonationService(db, hub)
	engagementService := services.NewEngagementService(db)

	// Background jobs
	jobManager, err := jobs.NewManager()
	if err != nil {
		logger.Fatal("Failed to create job manager: %v", err)
	}
	if err := jobManager.Register(jobs.NewTokenCleanup(authService, tokenCleanupInterval)); err != nil {
		logger.Fatal("Failed to register jobs: %v", err)
	}
	jobManager.Start()

	router := handlers.SetupRouter(handlers.RouterConfig{
		AuthService:       authService,
		UserService:       userService,
		AdminService:      adminService,
		CampaignService:   campaignService,
		DonationService:   donationService,
		EngagementService: engagementService,
		Hub:               hub,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		PublicURL:         cfg.Server.PublicURL,
		UploadRoot:        cfg.Storage.Root,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		logger.Info("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	jobManager.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
