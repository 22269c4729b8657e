package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	natsadapter "github.com/webcarros/listing-service/internal/adapter/messaging/nats"
	"github.com/webcarros/listing-service/internal/adapter/repository/cache"
	"github.com/webcarros/listing-service/internal/adapter/repository/mongodb"
	"github.com/webcarros/listing-service/internal/adapter/rest"
	"github.com/webcarros/listing-service/internal/adapter/storage/s3"
	"github.com/webcarros/listing-service/internal/config"
	"github.com/webcarros/listing-service/internal/listing/usecase"
	"github.com/webcarros/listing-service/internal/mailer"
	"github.com/webcarros/listing-service/internal/platform/logger"
	"github.com/webcarros/listing-service/internal/platform/tracer"
)

func main() {
	log := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err.Error())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.InitTracer(ctx)
	if err != nil {
		log.Error("Failed to initialize tracer", "error", err.Error())
		return
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shutdown tracer provider", "error", err.Error())
		}
	}()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("Failed to connect to MongoDB", "error", err.Error())
		return
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo := mongodb.NewListingRepository(db, log)
	profileRepo := mongodb.NewProfileRepository(db, log)
	if err := profileRepo.EnsureIndexes(ctx); err != nil {
		log.Error("Failed to ensure profile indexes", "error", err.Error())
		return
	}

	storage, err := s3.NewStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err.Error())
		return
	}

	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err.Error())
		return
	}

	events, err := natsadapter.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Error("Failed to connect to NATS", "error", err.Error())
		return
	}
	defer events.Close()

	var mail mailer.Mailer
	if cfg.SMTPEmail != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	} else {
		log.Warn("SMTP_EMAIL not set, listing-created mail disabled")
	}

	listingUc := usecase.NewListingUsecase(listingRepo, log)
	mediaUc := usecase.NewMediaUsecase(storage, log)
	cascadeUc := usecase.NewCascadeDeleteUsecase(listingRepo, storage, log)
	profileUc := usecase.NewProfileUsecase(profileRepo, log)

	handler := rest.NewHandler(listingUc, mediaUc, cascadeUc, profileUc, listingCache, events, mail, log)
	router := rest.NewRouter(handler, cfg.JWTSecret, log)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err.Error())
	}
	log.Info("Server stopped")
}
