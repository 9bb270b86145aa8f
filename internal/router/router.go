package router

import (
	"log/slog"
	"time"

	"github.com/divizend/dreaming/internal/config"
	"github.com/divizend/dreaming/internal/handlers"
	"github.com/divizend/dreaming/internal/middleware"
	"github.com/divizend/dreaming/internal/services"
	"github.com/divizend/dreaming/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg *config.Config, provider services.IdentityProvider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.RequestMetrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", handlers.WebhookSecretHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := utils.RegisterValidators(); err != nil {
		slog.Error("Failed to register validators", "error", err)
	}

	handlers.AllowedOrigins = cfg.AllowedOrigins
	if cfg.DefaultCurrency != "" {
		handlers.DefaultCurrency = cfg.DefaultCurrency
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.POST("/auth", handlers.Login(provider, cfg.SessionTTL))
		api.GET("/profile", middleware.AuthMiddleware(), handlers.Profile)

		api.GET("/projects", handlers.ListProjects)
		api.POST("/projects", middleware.AuthMiddleware(), middleware.RequireGlobalAdmin(), handlers.CreateProject)

		project := api.Group("/projects/:slug", middleware.ProjectContext())
		{
			project.GET("", handlers.GetProject)

			// Authenticated by the project's webhook secret.
			project.POST("/funds", handlers.InjectFunds)

			member := project.Group("", middleware.AuthMiddleware())
			{
				member.GET("/funds", handlers.GetMyFunds)
				member.GET("/ws", handlers.WebSocket)

				member.GET("/buckets", handlers.ListBuckets)
				member.GET("/buckets/:bucketId", handlers.GetBucket)
				member.GET("/buckets/:bucketId/budget-items", handlers.ListBudgetItems)
				member.GET("/buckets/:bucketId/budget-items/:itemId", handlers.GetBudgetItem)
				member.GET("/buckets/:bucketId/pledge", handlers.GetPledge)
				member.POST("/buckets/:bucketId/pledge", handlers.ReconcilePledge)
			}

			admin := project.Group("", middleware.AuthMiddleware(), middleware.RequireProjectAdmin())
			{
				admin.PUT("", handlers.UpdateProject)
				admin.DELETE("", handlers.DeleteProject)
				admin.POST("/webhook-secret", handlers.RotateWebhookSecret)

				admin.POST("/buckets", handlers.CreateBucket)
				admin.PUT("/buckets/:bucketId", handlers.UpdateBucket)
				admin.DELETE("/buckets/:bucketId", handlers.DeleteBucket)
				admin.POST("/buckets/:bucketId/budget-items", handlers.CreateBudgetItem)
				admin.PUT("/buckets/:bucketId/budget-items/:itemId", handlers.UpdateBudgetItem)
				admin.DELETE("/buckets/:bucketId/budget-items/:itemId", handlers.DeleteBudgetItem)
			}
		}
	}

	return r
}
