package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/FallThunder/hack-at-davidson25/clients"
	"github.com/FallThunder/hack-at-davidson25/config"
	"github.com/FallThunder/hack-at-davidson25/handlers"
	"github.com/FallThunder/hack-at-davidson25/logger"
	"github.com/FallThunder/hack-at-davidson25/services"
	"github.com/FallThunder/hack-at-davidson25/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	logger.Init(cfg.Environment, cfg.LogLevel)

	log.Info().
		Str("directory_url", cfg.DirectoryURL).
		Str("schema", string(cfg.SchemaVersion)).
		Msg("✅ Business directory starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientOpts := []clients.ClientOption{
		clients.WithSchema(cfg.SchemaVersion),
		clients.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	}
	if cfg.GoogleCredentialsJSON != "" {
		ts, err := clients.NewGoogleTokenSource(ctx, cfg.GoogleCredentialsJSON)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to load Google credentials")
		}
		clientOpts = append(clientOpts, clients.WithTokenSource(ts))
		log.Info().Msg("🔑 Google service account authentication enabled")
	}
	directory, err := clients.NewDirectoryClient(cfg.DirectoryURL, clientOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to create directory client")
	}

	var (
		history   storage.FetchLogRepository = storage.NewFetchLogMemoryRepository(cfg.HistoryLimit)
		publisher services.SnapshotPublisher
	)
	if cfg.NeedsAWS() {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to load AWS config")
		}
		if cfg.UseDynamoDB() {
			history = storage.NewFetchLogDynamoDBRepository(dynamodb.NewFromConfig(awsCfg), cfg.FetchLogTable)
			log.Info().Str("table", cfg.FetchLogTable).Msg("💾 DynamoDB fetch history enabled")
		}
		if cfg.UseS3() {
			publisher = storage.NewS3SnapshotPublisher(s3.NewFromConfig(awsCfg), cfg.SnapshotBucket, cfg.AWSRegion)
			log.Info().Str("bucket", cfg.SnapshotBucket).Msg("📤 S3 snapshot publishing enabled")
		}
	} else {
		log.Info().Msg("💡 Using in-memory fetch history")
	}

	renderer := services.NewRenderer()
	container := services.NewContainer("business-list")
	loader := services.NewLoader(directory, renderer, container, services.LoaderOptions{
		Timeout:   cfg.RequestTimeout,
		History:   history,
		Publisher: publisher,
	})

	page, err := handlers.NewPage(container)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Page is missing a required element")
	}

	router := handlers.NewRouter(
		page,
		handlers.NewBusinessHandler(loader, renderer, history, cfg.HistoryLimit, cfg.SurfaceFetchErrors),
		handlers.NewRateLimiter(ctx, cfg.TriggerRatePerSecond, cfg.TriggerBurst),
		cfg.AllowedOrigin,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msgf("🌍 Server running on http://:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ Graceful shutdown failed")
	}
	loader.Wait()
	log.Info().Msg("✅ Stopped")
}
