package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"GOOGLE_CLIENT_ID",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
}

// app bundles everything the router needs.
type app struct {
	authService          *usecase.AuthService
	memosService         *usecase.MemosService
	templatesService     *usecase.TemplatesService
	categoriesService    *usecase.CategoriesService
	notificationsService *usecase.NotificationsService
	attachments          *services.AttachmentStore
	preferences          *services.PreferenceStore
	sessionRepo          *repository.SessionRepo
	streams              *handler.SubscribeStreams
	tokens               *services.TokenService
	blacklist            *services.TokenBlacklist
	authCfg              config.AuthConfig
	attachCfg            config.AttachmentConfig
}

func setupRouter(a *app) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/google", func(c *gin.Context) {
				handler.GoogleLoginHandler(c, a.authService)
			})
			auth.POST("/refresh", func(c *gin.Context) {
				handler.RefreshTokenHandler(c, a.authService)
			})
		}
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(a.tokens, a.blacklist))
	protected.Use(middleware.SessionActivityMiddleware(a.sessionRepo, a.authCfg.SessionInactivityCap))
	{
		auth := protected.Group("/auth")
		{
			auth.GET("/me", func(c *gin.Context) {
				handler.GetProfileHandler(c, a.authService)
			})
			auth.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, a.authService)
			})
			auth.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllHandler(c, a.authService)
			})
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessionsHandler(c, a.sessionRepo)
			})
			sessions.DELETE("/:id", func(c *gin.Context) {
				handler.EndSessionHandler(c, a.sessionRepo)
			})
		}

		memos := protected.Group("/memos")
		{
			memos.GET("", func(c *gin.Context) {
				handler.GetMemosHandler(c, a.memosService)
			})
			memos.GET("/archived", func(c *gin.Context) {
				handler.GetArchivedMemosHandler(c, a.memosService)
			})
			memos.GET("/stats", func(c *gin.Context) {
				handler.GetMemoStatsHandler(c, a.memosService)
			})
			memos.GET("/:id", func(c *gin.Context) {
				handler.GetMemoHandler(c, a.memosService)
			})
			memos.POST("", func(c *gin.Context) {
				handler.CreateMemoHandler(c, a.memosService)
			})
			memos.PUT("/:id", func(c *gin.Context) {
				handler.UpdateMemoHandler(c, a.memosService)
			})
			memos.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteMemoHandler(c, a.memosService)
			})
			memos.POST("/:id/share", func(c *gin.Context) {
				handler.ShareMemoHandler(c, a.memosService, a.authService)
			})
		}

		templates := protected.Group("/templates")
		{
			templates.GET("", func(c *gin.Context) {
				handler.GetTemplatesHandler(c, a.templatesService)
			})
			templates.POST("", func(c *gin.Context) {
				handler.CreateTemplateHandler(c, a.templatesService)
			})
			templates.PUT("/:id", func(c *gin.Context) {
				handler.UpdateTemplateHandler(c, a.templatesService)
			})
			templates.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteTemplateHandler(c, a.templatesService)
			})
			templates.POST("/:id/use", func(c *gin.Context) {
				handler.UseTemplateHandler(c, a.templatesService)
			})
		}

		categories := protected.Group("/categories")
		{
			categories.GET("", func(c *gin.Context) {
				handler.GetCategoriesHandler(c, a.categoriesService)
			})
			categories.PATCH("/:id", func(c *gin.Context) {
				handler.UpdateCategoryHandler(c, a.categoriesService)
			})
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", func(c *gin.Context) {
				handler.GetNotificationsHandler(c, a.notificationsService)
			})
			notifications.GET("/:id", func(c *gin.Context) {
				handler.GetNotificationHandler(c, a.notificationsService)
			})
			notifications.POST("/:id/read", func(c *gin.Context) {
				handler.MarkNotificationReadHandler(c, a.notificationsService)
			})
			notifications.POST("/tokens", func(c *gin.Context) {
				handler.RegisterPushTokenHandler(c, a.notificationsService)
			})
		}

		attachments := protected.Group("/attachments")
		{
			attachments.POST("",
				middleware.RequestSizeLimiter(a.attachCfg.MaxUpload),
				func(c *gin.Context) {
					handler.UploadAttachmentHandler(c, a.attachments)
				})
			attachments.GET("/*path",
				middleware.CacheControlMiddleware("public, max-age=86400"),
				func(c *gin.Context) {
					handler.ServeAttachmentHandler(c, a.attachments)
				})
			attachments.DELETE("/*path", func(c *gin.Context) {
				handler.DeleteAttachmentHandler(c, a.attachments)
			})
		}

		protected.GET("/subscribe", func(c *gin.Context) {
			handler.SubscribeHandler(c, a.streams)
		})

		preferences := protected.Group("/preferences")
		{
			preferences.GET("", func(c *gin.Context) {
				handler.GetPreferencesHandler(c, a.preferences)
			})
			preferences.PUT("", func(c *gin.Context) {
				handler.UpdatePreferencesHandler(c, a.preferences)
			})
		}
	}

	return router
}

func main() {
	dbCfg := config.LoadDatabaseConfig()
	authCfg := config.LoadAuthConfig()
	redisCfg := config.LoadRedisConfig()
	attachCfg := config.LoadAttachmentConfig()
	pushCfg := config.LoadPushConfig()

	mongoClient, err := config.ConnectMongo(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	db := mongoClient.Database(dbCfg.DatabaseName)

	if err := repository.SetupIndexes(db); err != nil {
		log.Fatalf("Failed to set up indexes: %v", err)
	}

	redisOpts, err := redis.ParseURL(redisCfg.URL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cancel()
	}

	// Services
	sessionCache := services.NewSessionCache(redisClient)
	listCache := services.NewListCache(redisClient, redisCfg.ListCacheTTL)
	tokens := services.NewTokenService(authCfg)
	blacklist := services.NewTokenBlacklist(redisClient)
	verifier := services.NewGoogleVerifier(authCfg)
	pusher := services.NewFCMPusher(pushCfg)
	preferences := services.NewPreferenceStore(redisClient)

	attachments, err := services.NewAttachmentStore(db, attachCfg)
	if err != nil {
		log.Fatalf("Failed to set up attachment storage: %v", err)
	}

	// Repositories
	memosRepo := repository.GetMemosRepo(db)
	templatesRepo := repository.GetTemplatesRepo(db)
	categoriesRepo := repository.GetCategoriesRepo(db)
	notificationsRepo := repository.GetNotificationsRepo(db)
	userRepo := repository.GetUserRepo(db)
	sessionRepo := repository.GetSessionRepo(db, sessionCache)

	// Use cases
	authService := &usecase.AuthService{
		Verifier:    verifier,
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		Tokens:      tokens,
		Blacklist:   blacklist,
		Cfg:         authCfg,
	}
	memosService := &usecase.MemosService{
		MemoRepo:      memosRepo,
		Attachments:   attachments,
		Notifications: notificationsRepo,
		Directory:     userRepo,
	}
	templatesService := &usecase.TemplatesService{
		TemplateRepo: templatesRepo,
		Cache:        listCache,
	}
	categoriesService := &usecase.CategoriesService{
		CategoryRepo: categoriesRepo,
		Cache:        listCache,
	}
	notificationsService := &usecase.NotificationsService{
		NotificationRepo: notificationsRepo,
		UserRepo:         userRepo,
	}

	router := setupRouter(&app{
		authService:          authService,
		memosService:         memosService,
		templatesService:     templatesService,
		categoriesService:    categoriesService,
		notificationsService: notificationsService,
		attachments:          attachments,
		preferences:          preferences,
		sessionRepo:          sessionRepo,
		streams: &handler.SubscribeStreams{
			Memos:         memosRepo,
			Templates:     templatesRepo,
			Categories:    categoriesRepo,
			Notifications: notificationsRepo,
		},
		tokens:    tokens,
		blacklist: blacklist,
		authCfg:   authCfg,
		attachCfg: attachCfg,
	})

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := &usecase.PushDispatcher{UserRepo: userRepo, Pusher: pusher}
	go dispatcher.Run(workerCtx, notificationsRepo)

	stopMetrics := make(chan struct{})
	utils.StartSystemMetrics(stopMetrics, 15*time.Second)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopWorkers()
	close(stopMetrics)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDisconnect()
	if err := mongoClient.Disconnect(disconnectCtx); err != nil {
		log.Printf("Failed to disconnect MongoDB: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Failed to close Redis client: %v", err)
	}

	log.Println("Server exited")
}
