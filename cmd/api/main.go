package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	apppretest "github.com/adityasw/creative-pretest/internal/application/pretest"
	"github.com/adityasw/creative-pretest/internal/config"
	domain "github.com/adityasw/creative-pretest/internal/domain/pretest"
	openaicli "github.com/adityasw/creative-pretest/internal/infra/ai/openai"
	rediscache "github.com/adityasw/creative-pretest/internal/infra/cache"
	mysqlp "github.com/adityasw/creative-pretest/internal/infra/db/mysql"
	postgresp "github.com/adityasw/creative-pretest/internal/infra/db/postgres"
	"github.com/adityasw/creative-pretest/internal/infra/httpserver"
	"github.com/adityasw/creative-pretest/internal/infra/media"
	minioStore "github.com/adityasw/creative-pretest/internal/infra/storage"
	"github.com/adityasw/creative-pretest/internal/middleware"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	ctx := context.Background()

	// connect database, driver chosen by config
	var db *sql.DB
	var repo domain.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect error")
		}
		repo = postgresp.NewPretestRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("mysql connect error")
		}
		repo = mysqlp.NewPretestRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("minio init error")
	}

	// optional result cache
	var resultCache domain.ResultCache
	healthChecks := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	if cfg.Redis.Enabled {
		rc, err := rediscache.NewRedisCache(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLMinutes)*time.Minute,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("redis init error")
		}
		resultCache = rc
		healthChecks["cache"] = &middleware.CacheHealthChecker{Cache: rc}
	}

	// reasoning service client
	aiClient := openaicli.NewClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.TranscribeModel,
		cfg.OpenAI.MaxConcurrent,
		time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second,
		log,
	)

	// media extraction
	processor := &apppretest.Processor{
		Fetcher:       media.NewFetcher(time.Duration(cfg.Media.FetchTimeoutSeconds)*time.Second, cfg.Media.FetchRetries, log),
		Video:         media.NewFrameSampler(cfg.Media.FFmpegPath, cfg.Media.FFprobePath),
		Audio:         media.NewAudioAnalyzer(cfg.Media.FFmpegPath),
		Transcriber:   aiClient,
		Normalize:     media.NormalizeImage,
		MaxImageBytes: cfg.Media.MaxPayloadMB << 20,
		WorkerLimit:   cfg.Media.WorkerLimit,
		Log:           log,
	}

	svc := &apppretest.Service{
		Repo:      repo,
		Artifacts: store,
		Cache:     resultCache,
		Analyzer:  aiClient,
		Processor: processor,
		Log:       log,
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.RateLimit(30, 1))
	mux.Get("/healthz", middleware.HealthHandler(healthChecks))
	mux.Mount("/", httpserver.NewRouter(svc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
