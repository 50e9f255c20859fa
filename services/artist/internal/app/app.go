package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
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
	"fanvault-console/pkg/s3"
	"fanvault-console/pkg/staging"
	"fanvault-console/pkg/tokenstore"
	artistHTTP "fanvault-console/services/artist/internal/controller/http"
	"fanvault-console/services/artist/internal/repo/webapi"
	"fanvault-console/services/artist/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fanvault-console/services/artist/docs" // Swagger docs
)

const previewPrefix = "/previews"

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	redisClient *redis.Client
	tokens      tokenstore.Store
	jwtService  *jwt.Service
	gateway     *apiclient.Client
	queryCache  *query.Client
	runner      *mutation.Runner
	stager      *staging.Stager
	previews    artistHTTP.PreviewFiles
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
			log.Warn("Redis unavailable, login rate limiting disabled: %v", err)
		}
	}
	if cfg.TokenStore == "redis" {
		tokens = tokenstore.NewRedisStore(redisClient, "artist")
	}

	// Preview storage
	var store staging.PreviewStore
	var previews artistHTTP.PreviewFiles
	if cfg.PreviewStore == "s3" {
		s3Client, err := s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v", err)
			return nil, err
		}
		store = staging.NewObjectStore(s3Client, "previews", time.Hour)
	} else {
		dirStore, err := staging.NewDirStore(filepath.Join(cfg.PreviewDir, "fanvault-previews"), previewPrefix)
		if err != nil {
			log.Error("Failed to prepare preview directory: %v", err)
			return nil, err
		}
		store = dirStore
		previews = dirStore
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
		stager:      staging.NewStager(store, log),
		previews:    previews,
	}, nil
}

// Router builds the console's HTTP surface.
func (a *App) Router() *gin.Engine {
	// Initialize repositories
	studioRepo := webapi.NewStudioRepository(a.gateway)

	// Initialize use cases
	artistUseCase := usecase.NewArtistUseCase(studioRepo, a.tokens, a.jwtService, a.runner, a.stager, a.cfg.PageSize, a.log)

	// Initialize HTTP handlers
	artistHandler := artistHTTP.NewArtistHandler(artistUseCase, a.previews, a.cfg.SearchDebounce, a.log)

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

	session := middleware.SessionMiddleware(a.tokens, a.jwtService, "artist", a.log)
	access := artistHandler.RequireAccess()

	console := r.Group("/console")
	{
		console.POST("/login", middleware.RateLimitMiddleware(a.redisClient, a.cfg.LoginRateLimit, time.Minute), artistHandler.Login)
		console.POST("/logout", artistHandler.Logout)

		protected := console.Group("")
		protected.Use(session, access)
		{
			protected.GET("/session", artistHandler.Session)
			protected.GET("/me", artistHandler.Me)
			protected.PATCH("/me", artistHandler.UpdateProfile)
			protected.GET("/pricing", artistHandler.Pricing)
			protected.PATCH("/pricing", artistHandler.UpdatePricing)

			protected.GET("/dashboard", artistHandler.Dashboard)
			protected.GET("/analytics/:metric", artistHandler.Analytics)
			protected.GET("/channel-preview", artistHandler.ChannelPreview)

			protected.GET("/content", artistHandler.ListContent)
			protected.GET("/content/:id", artistHandler.GetContent)
			protected.DELETE("/content/:id", artistHandler.DeleteContent)

			protected.GET("/upload", artistHandler.Draft)
			protected.PATCH("/upload", artistHandler.UpdateDraft)
			protected.DELETE("/upload", artistHandler.DiscardDraft)
			protected.POST("/upload/submit", artistHandler.SubmitDraft)
			protected.POST("/upload/:kind", artistHandler.StageFile)
			protected.DELETE("/upload/:kind", artistHandler.UnstageFile)
		}
	}

	r.GET(previewPrefix+"/:id", session, artistHandler.Preview)
	r.GET("/ws/content/search", session, access, artistHandler.SearchContent)

	return r
}

func (a *App) Run() error {
	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	port := a.cfg.PortFor("artist")
	a.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: a.Router(),
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Artist console starting on port %s (api %s)", port, a.cfg.APIBaseURL)
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
	a.log.Info("Shutting down artist console...")
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

	// Drop staged previews
	a.stager.Release(ctx)

	// Stop background refetches
	a.queryCache.Close()

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Artist console exited")
	_ = a.log.Sync()
	return shutdownErr
}
