package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/neotube/neotube/internal/adapters/httpapi"
	"github.com/neotube/neotube/internal/adapters/memorybus"
	"github.com/neotube/neotube/internal/adapters/sqlite"
	"github.com/neotube/neotube/internal/adapters/youtube"
	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/buildinfo"
	"github.com/neotube/neotube/internal/config"
	"github.com/neotube/neotube/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	def := config.Default()
	addr := flag.String("addr", def.Addr, "Adresse d'écoute (ex: 127.0.0.1:5000)")
	dbPath := flag.String("db", def.DBPath, "Chemin SQLite (ex: neotube.db)")
	origins := flag.String("origins", strings.Join(def.AllowedOrigins, ","), "Origines CORS autorisées, séparées par des virgules")
	maxStreams := flag.Int("max-streams", def.MaxStreams, "Flux amont simultanés maximum")
	logLevel := flag.String("log-level", def.LogLevel, "Niveau de log (debug, info, warn, error)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("app", "neotube-server").Logger()
	log.Logger = logger

	logger.Info().Interface("build", buildinfo.Current()).Str("db", *dbPath).Msg("starting")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, *dbPath, logger.With().Str("component", "sqlite").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open db")
	}
	defer func() { _ = db.Close() }()

	bus := memorybus.New()

	settingsSvc := app.NewSettingsService(sqlite.NewSettingsRepository(db.SQL))

	// Une valeur passée explicitement (flag ou env) est persistée, sinon on reprend la valeur stockée.
	if maxStreamsExplicit() {
		if _, err := settingsSvc.Put(ctx, domain.ServerSettings{MaxConcurrentStreams: *maxStreams}); err != nil {
			logger.Warn().Err(err).Msg("failed to persist max streams")
		}
	}
	limit := *maxStreams
	if s, err := settingsSvc.Get(ctx); err == nil && s.MaxConcurrentStreams > 0 {
		limit = s.MaxConcurrentStreams
	}
	limiter := app.NewStreamLimiter(limit)
	logger.Info().Int("max_streams", limit).Msg("stream limiter ready")

	source := youtube.New(logger.With().Str("component", "youtube").Logger(), nil)
	mediaSvc := app.NewMediaService(logger.With().Str("component", "media").Logger(), source, limiter, bus)

	srv := httpapi.NewServer(logger, mediaSvc, settingsSvc, bus, limiter, strings.Split(*origins, ","))
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	// Fermer le bus termine les flux SSE ouverts avant Shutdown.
	bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}

func maxStreamsExplicit() bool {
	explicit := os.Getenv("NEOTUBE_MAX_STREAMS") != ""
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "max-streams" {
			explicit = true
		}
	})
	return explicit
}
