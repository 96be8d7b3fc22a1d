package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/cors"
	"github.com/jeremyjsx/portfolio/internal/config"
	"github.com/jeremyjsx/portfolio/internal/events"
	"github.com/jeremyjsx/portfolio/internal/handlers"
	"github.com/jeremyjsx/portfolio/internal/images"
	"github.com/jeremyjsx/portfolio/internal/middleware"
	"github.com/jeremyjsx/portfolio/internal/posts"
	"github.com/jeremyjsx/portfolio/internal/storage"
	"github.com/jeremyjsx/portfolio/internal/views"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.APIKey == "" {
		logger.Warn("API_KEY not set, admin routes are unprotected")
	}
	if cfg.ContentBaseURL() == "" {
		logger.Error("CMS_PROJECT_ID or CMS_BASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := views.EnsureSchema(ctx, db); err != nil {
		logger.Error("failed to create view schema", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	health := &handlers.HealthDeps{DB: db}
	if cfg.RabbitMQURL != "" {
		pub, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, view events disabled", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
			health.Events = pub
		}
	}

	resolver := images.NewResolver(cfg.CMSProjectID, cfg.CMSDataset)
	if cfg.S3Bucket != "" {
		store, err := newStorage(ctx, cfg)
		if err != nil {
			logger.Warn("s3 unavailable, using default fallback images", "error", err)
		} else {
			health.Storage = store
			if err := resolver.LoadFallbacks(ctx, store, cfg.FallbackImagePrefix, logger); err != nil {
				logger.Warn("failed to load fallback images", "error", err)
			}
		}
	}

	viewSvc := views.NewService(views.NewPostgresRepository(db), publisher, logger)

	postSvc := posts.NewService(posts.NewCMSRepository(posts.CMSConfig{
		BaseURL:    cfg.ContentBaseURL(),
		APIVersion: cfg.CMSAPIVersion,
		Dataset:    cfg.CMSDataset,
		Token:      cfg.CMSToken,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}), posts.Options{
		DefaultAuthor: cfg.DefaultAuthor,
		FeaturedTags:  cfg.FeaturedTags,
		PageSize:      cfg.PageSize,
		Views:         viewSvc,
		Logger:        logger,
	})
	if err := postSvc.Load(ctx); err != nil {
		logger.Error("initial content load failed, serving 503 until refreshed", "error", err)
	}
	health.Content = postSvc

	mux := http.NewServeMux()
	handlers.Routes{
		Posts:  handlers.NewPostsHandler(postSvc, resolver, logger),
		Views:  handlers.NewViewsHandler(viewSvc, logger),
		Health: health,
		APIKey: cfg.APIKey,
	}.Register(mux)

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler(middleware.RequestID(middleware.Logging(logger)(middleware.Metrics(mux))))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

func newStorage(ctx context.Context, cfg *config.Config) (*storage.S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = &cfg.S3Endpoint
			o.UsePathStyle = true
		}
	})
	return storage.NewS3Storage(client, cfg.S3Bucket, cfg.AWSRegion, cfg.CDNBaseURL), nil
}
