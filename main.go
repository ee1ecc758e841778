package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"drivedrop/config"
	"drivedrop/database"
	"drivedrop/googleapi"
	"drivedrop/handlers"
	"drivedrop/logger"
	"drivedrop/middleware"
	"drivedrop/models"
	"drivedrop/repositories"
	"drivedrop/services"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("starting drivedrop service")

	configPath := os.Getenv("DRIVEDROP_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(os.Getenv("DRIVEDROP_LOG_LEVEL"))

	if err := database.InitMySQL(&cfg.Database); err != nil {
		log.Fatalf("init mysql failed: %v", err)
	}

	database.DB.AutoMigrate(
		&models.User{},
		&models.UserFolder{},
		&models.UploadLink{},
		&models.TempLink{},
		&models.Transfer{},
		&models.PendingUpload{},
	)
	log.Println("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		log.Fatalf("init redis failed: %v", err)
	}

	google := services.GoogleClients{
		OAuth: googleapi.NewOAuthClient(
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			cfg.Google.RedirectURL,
			time.Duration(cfg.Google.TokenTimeoutSec)*time.Second,
		),
		Token: googleapi.NewTokenClient(
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			time.Duration(cfg.Google.TokenTimeoutSec)*time.Second,
		),
		Drive: googleapi.NewDriveClient(
			time.Duration(cfg.Google.UploadTimeoutSec)*time.Second,
			time.Duration(cfg.Google.MetadataTimeoutSec)*time.Second,
		),
		Mail: googleapi.NewMailClient(
			time.Duration(cfg.Google.MetadataTimeoutSec) * time.Second,
		),
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(repoContainer, google)
	handlers.SetServices(serviceContainer)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger())
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.GET("/google/url", handlers.GetGoogleAuthURL)
		auth.GET("/google/callback", handlers.GoogleAuthCallback)
	}

	// 匿名上传方可达的接口
	api.GET("/links/:token", handlers.ResolveUploadLink)
	api.POST("/transfers", handlers.CreateTransferRecord)
	api.POST("/transfers/complete", handlers.CompleteTransfer)
	api.POST("/tokens/refresh", handlers.RefreshToken)
	api.POST("/uploads", handlers.DeliverUpload)
	api.POST("/uploads/stage", handlers.StageUpload)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", handlers.GetProfile)

		protected.GET("/drive/folders", handlers.ListDriveFolders)
		protected.PUT("/drive/folder", handlers.SelectFolder)
		protected.GET("/drive/folder", handlers.GetSelectedFolder)

		protected.POST("/links", handlers.CreateUploadLink)
		protected.GET("/links", handlers.GetUserUploadLink)
		protected.DELETE("/links", handlers.DeactivateUploadLink)

		protected.POST("/temp-links", handlers.CreateTempLink)
		protected.GET("/temp-links", handlers.ListTempLinks)
		protected.DELETE("/temp-links/:token", handlers.DeactivateTempLink)

		protected.GET("/transfers", handlers.ListTransfers)
		protected.POST("/uploads/process", handlers.ProcessPendingUploads)
	}
}
