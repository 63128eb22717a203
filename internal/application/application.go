// Package application wires config, storage, services, and transport into a
// runnable API process.
package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/college-feedback/feedback-service/internal/auth"
	"github.com/college-feedback/feedback-service/internal/blobstore"
	"github.com/college-feedback/feedback-service/internal/cache"
	"github.com/college-feedback/feedback-service/internal/config"
	"github.com/college-feedback/feedback-service/internal/database"
	"github.com/college-feedback/feedback-service/internal/handler"
	"github.com/college-feedback/feedback-service/internal/kafka"
	"github.com/college-feedback/feedback-service/internal/router"
	"github.com/college-feedback/feedback-service/internal/service"
)

type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	producer *kafka.Producer
	cache    *cache.Dashboard
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicFeedback)
	dashCache := cache.NewDashboard(cfg.RedisAddr)
	store, err := blobstore.New(context.Background(), cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		return nil, fmt.Errorf("blobstore: %w", err)
	}

	userSvc := service.NewUserService(db)
	categorySvc := service.NewCategoryService(db)
	feedbackSvc := service.NewFeedbackService(db, producer)
	dashboardSvc := service.NewDashboardService(db, dashCache)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTLifetime)
	mw := auth.NewMiddleware(jwtManager, userSvc)

	mux := router.New(db, mw, router.Handlers{
		Auth:       handler.NewAuthHandler(userSvc, jwtManager),
		Feedback:   handler.NewFeedbackHandler(feedbackSvc),
		Category:   handler.NewCategoryHandler(categorySvc),
		Dashboard:  handler.NewDashboardHandler(dashboardSvc),
		Attachment: handler.NewAttachmentHandler(store),
		User:       handler.NewUserHandler(userSvc),
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		producer: producer,
		cache:    dashCache,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:    %s/swagger", base)
	log.Printf("  Swagger spec:  %s/swagger/openapi.json", base)
	log.Printf("  Health:        %s/health", base)
	log.Printf("  Ready:         %s/ready", base)
	log.Printf("  API v1:        %s/api/v1/", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("kafka: close: %v", err)
	}
	if err := a.cache.Close(); err != nil {
		log.Printf("cache: close: %v", err)
	}
	return nil
}
