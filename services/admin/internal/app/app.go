package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/cache"
	"fanvault-console/pkg/config"
	"fanvault-console/pkg/jwt"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/middleware"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/query"
	"fanvault-console/pkg/tokenstore"
	adminHTTP "fanvault-console/services/admin/internal/controller/http"
	"fanvault-console/services/admin/internal/repo/webapi"
	"fanvault-console/services/admin/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fanvault-console/services/admin/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient *redis.Client
	tokens      tokenstore.Store
	jwtService  *jwt.Service
	gateway     *apiclient.Client
	queryCache  *query.Client
	runner      *mutation.Runner
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithConfig(logger.Config{Level: cfg.LogLevel, OutputPath: cfg.LogFile})

	var redisClient *redis.Client
	tokens := tokenstore.NewMemoryStore()
	if cfg.TokenStore == "redis" || cfg.LoginRateLimit > 0 {
		client, err := cache.NewRedisClient(cfg)
		switch {
		case err == nil:
			redisClient = client
		case cfg.TokenStore == "redis":
			log.Error("Failed to connect to redis: %v", err)
			return nil, err
		default:
			// Redis only backs the login limiter here
			log.Warn("Redis unavailable, login rate limiting disabled: %v", err)
		}
	}
	if cfg.TokenStore == "redis" {
		tokens = tokenstore.NewRedisStore(redisClient, "admin")
	}

	queryCache := query.NewClient(query.WithLogger(log), query.WithStaleTime(cfg.QueryStaleTime))

	gateway := apiclient.New(apiclient.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Tokens:  tokens,
		Logger:  log,
		OnUnauthorized: func(ctx context.Context) {
			if err := tokens.Clear(ctx); err != nil {
				log.Error("Failed to clear session token: %v", err)
			}
			queryCache.Clear()
		},
	})

	return &App{
		cfg:         cfg,
		log:         log,
		redisClient: redisClient,
		tokens:      tokens,
		jwtService:  jwt.NewService(cfg.JWTSecret),
		gateway:     gateway,
		queryCache:  queryCache,
		runner:      mutation.NewRunner(queryCache, mutation.NewBusySet(), log),
	}, nil
}

// Router builds the console's HTTP surface.
func (a *App) Router() *gin.Engine {
	// Initialize repositories
	platformRepo := webapi.NewPlatformRepository(a.gateway)

	// Initialize use cases
	adminUseCase := usecase.NewAdminUseCase(platformRepo, a.tokens, a.jwtService, a.runner, a.cfg.PageSize, a.log)

	// Initialize HTTP handlers
	adminHandler := adminHTTP.NewAdminHandler(adminUseCase, a.cfg.SearchDebounce, a.log)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorBoundary(a.log))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	session := middleware.SessionMiddleware(a.tokens, a.jwtService, "admin", a.log)

	console := r.Group("/console")
	{
		console.POST("/login", middleware.RateLimitMiddleware(a.redisClient, a.cfg.LoginRateLimit, time.Minute), adminHandler.Login)
		console.POST("/logout", adminHandler.Logout)

		protected := console.Group("")
		protected.Use(session)
		{
			protected.GET("/session", adminHandler.Session)
			protected.GET("/dashboard", adminHandler.Dashboard)
			protected.GET("/analytics/revenue", adminHandler.Revenue)

			protected.GET("/artists", adminHandler.ListArtists)
			protected.POST("/artists", adminHandler.CreateArtist)
			protected.GET("/artists/:id", adminHandler.GetArtist)
			protected.PATCH("/artists/:id", adminHandler.UpdateArtist)
			protected.PATCH("/artists/:id/status", adminHandler.ToggleStatus)
			protected.PATCH("/artists/:id/verified", adminHandler.SetVerified)
			protected.DELETE("/artists/:id/content/:content_id", adminHandler.DeleteContent)

			protected.GET("/content/pending", adminHandler.ListPending)
			protected.PATCH("/content/:id/approve", adminHandler.Approve)
			protected.PATCH("/content/:id/reject", adminHandler.Reject)
		}
	}

	r.GET("/ws/artists/search", session, adminHandler.SearchArtists)

	return r
}

func (a *App) Run() error {
	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	port := a.cfg.PortFor("admin")
	a.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: a.Router(),
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Admin console starting on port %s (api %s)", port, a.cfg.APIBaseURL)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down admin console...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	// Stop background refetches
	a.queryCache.Close()

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Admin console exited")
	_ = a.log.Sync()
	return shutdownErr
}
