package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/seorap-app/seorap-backend/internal/api/handlers"
	"github.com/seorap-app/seorap-backend/internal/api/middleware"
	"github.com/seorap-app/seorap-backend/internal/config"
	appcron "github.com/seorap-app/seorap-backend/internal/cron"
	"github.com/seorap-app/seorap-backend/internal/db"
	"github.com/seorap-app/seorap-backend/internal/repository"
	"github.com/seorap-app/seorap-backend/internal/seed"
	"github.com/seorap-app/seorap-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Main] No .env file found, using environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	var (
		repos *repository.Repositories
		tx    repository.TxManager
		dbUp  = func(ctx context.Context) bool { return true }
	)
	if cfg.DatabaseURL != "" {
		if err := db.RunMigrations(cfg.DatabaseURL, "./internal/db/migrations"); err != nil {
			log.Fatalf("[Main] ❌ Migrations failed: %v", err)
		}
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[Main] ❌ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()
		repos = repository.NewPgRepositories(pool)
		tx = repository.NewPgTxManager(pool)
		dbUp = func(ctx context.Context) bool { return pool.Ping(ctx) == nil }
	} else {
		log.Println("[Main] ⚠️ No DATABASE_URL, using in-memory storage")
		repos = repository.NewRepositories()
		tx = repository.NewMemoryTxManager(repos)
	}

	cache := db.NewRedisDB(ctx, cfg.RedisURL)
	defer cache.Close()

	services := service.NewServices(service.ServiceDeps{
		Config: cfg,
		Repos:  repos,
		Tx:     tx,
		Cache:  cache,
	})

	if !cfg.IsProduction() && cfg.SeedData {
		seed.Run(ctx, services)
	}

	scheduler := appcron.NewScheduler(services)
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.NewHandlers(services)
	registerRoutes(router, h, services, cache, dbUp)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[Main] 🚀 Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[Main] ❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Main] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] ⚠️ Forced shutdown: %v", err)
	}
	log.Println("[Main] Bye 👋")
}

func registerRoutes(router *gin.Engine, h *handlers.Handlers, services *service.Services, cache *db.RedisDB, dbUp func(context.Context) bool) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"db":     dbUp(c.Request.Context()),
			"cache":  cache.Healthy(c.Request.Context()),
		})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// Invitation preview is the only public drawer route.
	api.GET("/drawers/invitations/:code", h.Invitation.Preview)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(services.Auth))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", h.User.Me)
			users.PUT("/me", h.User.Update)
		}

		drawers := protected.Group("/drawers")
		{
			drawers.POST("", h.Drawer.Create)
			drawers.GET("/search", h.Drawer.Search)
			drawers.GET("/my", h.Drawer.My)
			drawers.POST("/join", h.Invitation.Redeem)

			drawers.GET("/:id", h.Drawer.Get)
			drawers.PATCH("/:id/info", h.Drawer.UpdateInfo)
			drawers.GET("/:id/settings", h.Drawer.Settings)
			drawers.PATCH("/:id/settings", h.Drawer.UpdateSettings)
			drawers.PATCH("/:id/master", h.Drawer.TransferMaster)
			drawers.DELETE("/:id", h.Drawer.Delete)

			drawers.GET("/:id/members", h.Drawer.Members)
			drawers.POST("/:id/leave", h.Drawer.Leave)
			drawers.DELETE("/:id/users", h.Drawer.Kick)
			drawers.PATCH("/:id/users/:userId", h.Drawer.UpdateMemberRole)

			drawers.POST("/:id/invitations", h.Invitation.Issue)

			drawers.POST("/:id/requests", h.JoinRequest.Request)
			drawers.GET("/:id/requests", h.JoinRequest.ListPending)
			drawers.PATCH("/:id/requests/:requestId", h.JoinRequest.Approve)
			drawers.DELETE("/:id/requests/:requestId", h.JoinRequest.Reject)
		}
	}
}
