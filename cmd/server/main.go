package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"atelier/internal/auth"
	"atelier/internal/blob"
	"atelier/internal/cache"
	"atelier/internal/config"
	"atelier/internal/domain/models"
	"atelier/internal/domain/services"
	"atelier/internal/handler"
	"atelier/internal/imaging"
	"atelier/internal/jobs"
	"atelier/internal/metrics"
	"atelier/internal/middleware"
	"atelier/internal/notify"
	"atelier/internal/ratelimit"
	"atelier/internal/repository/postgres"
	"atelier/internal/service"
	serviceAuth "atelier/internal/service/auth"
	"atelier/internal/site"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names and make sure they exist
	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	imageRepo := postgres.NewProjectImageRepository(repoConfig)
	homepageRepo := postgres.NewHomepageRepository(repoConfig)
	messageRepo := postgres.NewMessageRepository(repoConfig)
	categoryRepo := postgres.NewCategoryRepository(repoConfig)
	itemRepo := postgres.NewPortfolioItemRepository(repoConfig)
	orderingRepo := postgres.NewOrderingRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Site information (embedded defaults, optional override file)
	siteRegistry, err := site.NewRegistry(cfg.SiteConfigPath)
	if err != nil {
		log.Fatalf("Failed to load site info: %v", err)
	}
	logger.Info("site info loaded", "name", siteRegistry.Info().Name)

	// Blob storage
	mux := http.NewServeMux()
	store, err := setupBlobStore(ctx, cfg, mux, logger)
	if err != nil {
		log.Fatalf("Failed to setup blob store: %v", err)
	}
	uploader := service.NewImageUploader(imaging.NewProcessor(cfg.ImageMaxWidth, cfg.ImageJPEGQuality), store, logger)

	// Contact notifications
	var notifier services.Notifier = notify.NewLogNotifier(logger)
	if cfg.SMTPEnabled() {
		notifier = notify.NewMailNotifier(notify.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			To:       cfg.MailTo,
			SiteName: siteRegistry.Info().Name,
		}, logger)
		logger.Info("contact notifications enabled", "smtp_host", cfg.SMTPHost)
	} else {
		logger.Warn("SMTP_HOST or MAIL_TO not set, contact messages are only logged")
	}

	// Public page cache, purged by every admin write
	pages := cache.NewTTL[string, *models.HomePage](16, cfg.PublicCacheTTL)

	// Create services
	orderingService := service.NewOrderingService(orderingRepo, txManager, logger)
	projectService := service.NewProjectService(projectRepo, imageRepo, orderingService, txManager, logger)
	imageService := service.NewProjectImageService(projectRepo, imageRepo, orderingService, uploader, txManager, logger)
	homepageService := service.NewHomepageService(homepageRepo, projectRepo, imageRepo, siteRegistry, pages, txManager, logger)
	messageService := service.NewMessageService(messageRepo, notifier, logger)
	portfolioService := service.NewPortfolioService(categoryRepo, itemRepo, orderingService, uploader, txManager, logger)

	// Admin authentication
	passwords := auth.NewPasswordChecker(cfg.AdminPasswordHash, cfg.AdminPassword)
	if !passwords.Configured() {
		logger.Warn("ADMIN_PASSWORD and ADMIN_PASSWORD_HASH are empty, admin login is disabled")
	}
	tokens, err := auth.NewHMACTokens(cfg.AdminTokenSecret, cfg.AdminSessionTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	// Revocations must outlive every token any verifier accepts
	revocations := auth.NewRevocations(tokens.TTL())
	verifier := auth.NewChainVerifier(revocations, logger, tokens)
	if cfg.AuthJWKSURL != "" {
		jwks, err := auth.NewJWKSVerifier(ctx, cfg.AuthJWKSURL, auth.JWKSOptions{
			Issuer:      cfg.AuthJWKSIssuer,
			Audience:    cfg.AuthJWKSAudience,
			Subjects:    cfg.JWKSSubjects(),
			MaxLifetime: tokens.TTL(),
		}, logger)
		if err != nil {
			log.Fatalf("Failed to create JWKS verifier: %v", err)
		}
		verifier.Add(jwks)
	}
	defer verifier.Close()

	loginLimiter := ratelimit.New(cfg.LoginRatePerMinute, 15*time.Minute)
	contactLimiter := ratelimit.New(cfg.ContactRatePerMinute, 15*time.Minute)
	authService := serviceAuth.NewLoginService(passwords, tokens, revocations, loginLimiter, logger)

	// Create handlers
	siteHandler := handler.NewSiteHandler(siteRegistry, pool, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	imageHandler := handler.NewImageHandler(imageService, logger)
	homepageHandler := handler.NewHomepageHandler(homepageService, logger)
	messageHandler := handler.NewMessageHandler(messageService, logger)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService, logger)
	orderingHandler := handler.NewOrderingHandler(orderingService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	logger.Info("services initialized")

	// Public routes (Go 1.22+ enhanced patterns)
	mux.HandleFunc("GET /health", siteHandler.HealthCheck)
	mux.HandleFunc("GET /api/site", siteHandler.GetSite)
	mux.HandleFunc("GET /api/home", homepageHandler.GetHomePage)
	mux.HandleFunc("GET /api/projects", projectHandler.ListProjects)
	mux.HandleFunc("GET /api/projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("GET /api/projects/{id}/images", imageHandler.ListProjectImages)
	mux.HandleFunc("GET /api/portfolio", portfolioHandler.ListItems)
	mux.HandleFunc("GET /api/categories", portfolioHandler.ListCategories)
	mux.Handle("POST /api/contact", middleware.RateLimit(contactLimiter, logger)(http.HandlerFunc(messageHandler.CreateMessage)))
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Admin routes: bearer token required, writes purge the page cache
	requireAdmin := middleware.RequireAdmin(verifier, logger)
	invalidate := middleware.InvalidateOnWrite(pages.Purge)
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireAdmin(invalidate(h)))
	}

	admin("GET /api/admin/session", authHandler.Session)
	admin("POST /api/admin/logout", authHandler.Logout)

	// Projects
	admin("GET /api/admin/projects", projectHandler.ListProjects)
	admin("POST /api/admin/projects", projectHandler.CreateProject)
	admin("POST /api/admin/projects/renumber", orderingHandler.Renumber(models.ScopeProjects, models.ScopeProjectImages)) // Must come before {id} routes
	admin("GET /api/admin/projects/{id}", projectHandler.GetProject)
	admin("PATCH /api/admin/projects/{id}", projectHandler.UpdateProject)
	admin("DELETE /api/admin/projects/{id}", projectHandler.DeleteProject)
	admin("POST /api/admin/projects/{id}/move", projectHandler.MoveProject)

	// Project images
	admin("GET /api/admin/images", imageHandler.ListImages)
	admin("POST /api/admin/projects/{id}/images", imageHandler.CreateImage)
	admin("GET /api/admin/images/{id}", imageHandler.GetImage)
	admin("PATCH /api/admin/images/{id}", imageHandler.UpdateImage)
	admin("DELETE /api/admin/images/{id}", imageHandler.DeleteImage)
	admin("POST /api/admin/images/{id}/move", imageHandler.MoveImage)

	// Homepage
	admin("GET /api/admin/homepage", homepageHandler.GetSettings)
	admin("PUT /api/admin/homepage/{slot}", homepageHandler.SetImage)

	// Messages
	admin("GET /api/admin/messages", messageHandler.ListMessages)
	admin("PATCH /api/admin/messages/{id}", messageHandler.MarkRead)
	admin("DELETE /api/admin/messages/{id}", messageHandler.DeleteMessage)

	// Categories and portfolio items
	admin("POST /api/admin/categories", portfolioHandler.CreateCategory)
	admin("DELETE /api/admin/categories/{id}", portfolioHandler.DeleteCategory)
	admin("GET /api/admin/portfolio", portfolioHandler.ListItems)
	admin("POST /api/admin/portfolio", portfolioHandler.CreateItem)
	admin("POST /api/admin/portfolio/renumber", orderingHandler.Renumber(models.ScopePortfolioItems))
	admin("GET /api/admin/portfolio/{id}", portfolioHandler.GetItem)
	admin("PATCH /api/admin/portfolio/{id}", portfolioHandler.UpdateItem)
	admin("DELETE /api/admin/portfolio/{id}", portfolioHandler.DeleteItem)
	admin("POST /api/admin/portfolio/{id}/move", portfolioHandler.MoveItem)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: RealIP → Logging → Recovery → CORS → Routes
	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RealIP(trustedProxies)(h)

	// Scheduled display_order repair
	scheduler := jobs.NewScheduler(logger)
	if err := jobs.Register(scheduler, cfg.RenumberSpec(), orderingService, pages.Purge, logger); err != nil {
		log.Fatalf("Failed to schedule renumber job: %v", err)
	}
	scheduler.Start()

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Uploads are processed before the response is written
		IdleTimeout:  60 * time.Second,
	}

	var stats *metrics.StatsServer
	if cfg.MetricsAddr != "" {
		stats = metrics.NewStatsServer(cfg.MetricsAddr)
		go func() {
			logger.Info("stats server starting", "addr", cfg.MetricsAddr)
			if err := stats.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("stats server failed", "error", err)
			}
		}()
	}

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Fatalf("Failed to start server: %v", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if stats != nil {
		if err := stats.Shutdown(shutdownCtx); err != nil {
			logger.Error("stats server shutdown", "error", err)
		}
	}
	scheduler.Shutdown()
	messageService.Wait()

	logger.Info("server stopped")
}

// setupBlobStore picks S3 or the local disk. Local files are served under /uploads/.
func setupBlobStore(ctx context.Context, cfg *config.Config, mux *http.ServeMux, logger *slog.Logger) (services.BlobStore, error) {
	switch cfg.BlobBackend {
	case "s3":
		return blob.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL, logger)
	case "local":
		local, err := blob.NewLocalStore(cfg.UploadDir, strings.TrimSuffix(cfg.PublicBaseURL, "/")+"/uploads", logger)
		if err != nil {
			return nil, err
		}
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
		return local, nil
	}
	return nil, fmt.Errorf("BLOB_BACKEND must be s3 or local, got %q", cfg.BlobBackend)
}
