package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/settleline/api/internal/config"
	"github.com/settleline/api/internal/database"
	"github.com/settleline/api/internal/handler"
	"github.com/settleline/api/internal/jobs"
	"github.com/settleline/api/internal/middleware"
	"github.com/settleline/api/internal/repository"
	"github.com/settleline/api/internal/service"
	"github.com/settleline/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:          cfg.JWT.Secret,
		Issuer:          cfg.JWT.Issuer,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize services
	notificationService := service.NewNotificationService(service.NotificationServiceConfig{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		MergeWindow:      cfg.Notifications.MergeWindow,
		TTL:              cfg.Notifications.TTL,
		Logger:           logger,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:  userRepo,
		StatsRepo: statsRepo,
		Signer:    jwtService,
	})

	categoryService := service.NewCategoryService(service.CategoryServiceConfig{
		CategoryRepo: categoryRepo,
		TaskRepo:     taskRepo,
		Notifier:     notificationService,
	})

	taskService := service.NewTaskService(service.TaskServiceConfig{
		TaskRepo:     taskRepo,
		CategoryRepo: categoryRepo,
		Notifier:     notificationService,
	})

	progressService := service.NewProgressService(service.ProgressServiceConfig{
		ProgressRepo: progressRepo,
		TaskRepo:     taskRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
	})

	// Initialize rate limit store; Redis when configured, in-memory otherwise
	var limitStore middleware.LimitStore
	if cfg.RateLimit.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
		})
		defer func() { _ = redisClient.Close() }()
		limitStore = middleware.NewRedisStore(redisClient, middleware.RateLimitConfig{
			Rate:   cfg.RateLimit.Rate,
			Window: cfg.RateLimit.Window,
		})
		slog.Info("rate limiting via redis", slog.String("addr", cfg.RateLimit.RedisAddr))
	} else {
		limitStore = middleware.NewMemoryStore(middleware.RateLimitConfig{
			Rate:   cfg.RateLimit.Rate,
			Window: cfg.RateLimit.Window,
			Burst:  cfg.RateLimit.Burst,
		})
	}
	defer limitStore.Stop()

	// Start the notification purge job
	purgeJob := jobs.NewNotificationPurge(notificationService, cfg.Notifications.PurgeSchedule)
	if err := purgeJob.Start(); err != nil {
		slog.Error("failed to start purge job", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer purgeJob.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	taskHandler := handler.NewTaskHandler(taskService)
	dashboardHandler := handler.NewDashboardHandler(progressService, notificationService)
	adminHandler := handler.NewAdminHandler(authService, notificationService, cfg.Server.PublicBaseURL)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /v1/auth/signin", authHandler.Signin)

	authMiddleware := middleware.Auth(jwtService)
	adminMiddleware := middleware.AdminAuth(jwtService)

	// Auth endpoints (protected)
	mux.Handle("GET /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /v1/auth/profile", authMiddleware(http.HandlerFunc(authHandler.UpdateProfile)))

	// Category endpoints; reads for any signed-in user, writes admin-only
	mux.Handle("GET /v1/categories", authMiddleware(http.HandlerFunc(categoryHandler.List)))
	mux.Handle("POST /v1/categories", adminMiddleware(http.HandlerFunc(categoryHandler.Create)))
	mux.Handle("PATCH /v1/categories/reorder", adminMiddleware(http.HandlerFunc(categoryHandler.BatchReorder)))
	mux.Handle("GET /v1/categories/{id}", authMiddleware(http.HandlerFunc(categoryHandler.Get)))
	mux.Handle("PATCH /v1/categories/{id}", adminMiddleware(http.HandlerFunc(categoryHandler.Update)))
	mux.Handle("DELETE /v1/categories/{id}", adminMiddleware(http.HandlerFunc(categoryHandler.Delete)))
	mux.Handle("PATCH /v1/categories/{id}/order", adminMiddleware(http.HandlerFunc(categoryHandler.Reorder)))

	// Task endpoints
	mux.Handle("GET /v1/tasks", authMiddleware(http.HandlerFunc(taskHandler.List)))
	mux.Handle("POST /v1/tasks", adminMiddleware(http.HandlerFunc(taskHandler.Create)))
	mux.Handle("PATCH /v1/tasks/reorder", adminMiddleware(http.HandlerFunc(taskHandler.BatchReorder)))
	mux.Handle("GET /v1/tasks/{id}", authMiddleware(http.HandlerFunc(taskHandler.Get)))
	mux.Handle("PATCH /v1/tasks/{id}", adminMiddleware(http.HandlerFunc(taskHandler.Update)))
	mux.Handle("DELETE /v1/tasks/{id}", adminMiddleware(http.HandlerFunc(taskHandler.Delete)))
	mux.Handle("PATCH /v1/tasks/{id}/order", adminMiddleware(http.HandlerFunc(taskHandler.Reorder)))

	// Dashboard endpoints
	mux.Handle("GET /v1/dashboard/progress", authMiddleware(http.HandlerFunc(dashboardHandler.GetProgress)))
	mux.Handle("PUT /v1/dashboard/progress", authMiddleware(http.HandlerFunc(dashboardHandler.ToggleProgress)))
	mux.Handle("GET /v1/dashboard/notifications", authMiddleware(http.HandlerFunc(dashboardHandler.GetNotifications)))

	// Admin endpoints
	mux.Handle("PATCH /v1/admin/users/{id}/plan", adminMiddleware(http.HandlerFunc(adminHandler.UpdatePlan)))
	mux.Handle("POST /v1/admin/notifications/announce", adminMiddleware(http.HandlerFunc(adminHandler.Announce)))
	mux.Handle("GET /v1/admin/stats", adminMiddleware(http.HandlerFunc(adminHandler.GetStats)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(limitStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
