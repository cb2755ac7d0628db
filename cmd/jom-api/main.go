// README: Entry point; loads config, wires services, starts the HTTP
// server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"justonemore/internal/ai"
	"justonemore/internal/config"
	httptransport "justonemore/internal/http"
	"justonemore/internal/infra"
	"justonemore/internal/maps"
	"justonemore/internal/modules/demo"
	"justonemore/internal/modules/directory"
	"justonemore/internal/modules/dish"
	"justonemore/internal/modules/impact"
	"justonemore/internal/modules/planner"
	"justonemore/internal/modules/qrcode"
	"justonemore/internal/modules/trip"
)

func main() {
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	var geocoder *maps.GeocodeService
	if cfg.Maps.APIKey != "" {
		geocoder, err = maps.NewGeocodeService(cfg.Maps.APIKey, cfg.Maps.GeocodeTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("maps client init failed")
		}
	}

	var suggester ai.AllergenSuggester
	if cfg.AI.GeminiKey != "" {
		suggester, err = ai.NewGeminiSuggester(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini init failed")
		}
	}

	labels, err := qrcode.NewFileLabelStore(cfg.QR.LabelDir)
	if err != nil {
		log.Fatal().Err(err).Msg("label dir init failed")
	}

	var remote qrcode.RemoteDecoder
	if cfg.QR.RemoteFallback {
		remote = qrcode.NewRemoteClient(cfg.QR.RemoteURL, cfg.QR.RemoteTimeout)
	}
	qrSvc := qrcode.NewService(qrcode.NewLocalDetector(), remote, cfg.QR.RemoteFallback)

	directoryStore := directory.NewStore(dbPool)
	geoIndex := directory.NewGeoIndex(redisClient)
	var dirGeocoder directory.Geocoder
	if geocoder != nil {
		dirGeocoder = geocoder
	}
	directorySvc := directory.NewService(directoryStore, dirGeocoder, geoIndex)
	if err := directorySvc.EnsureSeedData(ctx); err != nil {
		log.Warn().Err(err).Msg("seed data failed")
	}

	dishStore := dish.NewStore(dbPool)
	tripStore := trip.NewStore(dbPool)
	impactStore := impact.NewStore(dbPool)
	impactSvc := impact.NewService(dishStore, directoryStore, tripStore, impactStore)

	var dishGeocoder dish.Geocoder
	if geocoder != nil {
		dishGeocoder = geocoder
	}
	dishSvc := dish.NewService(dishStore, directorySvc, impactSvc, labels, dishGeocoder)

	tripSvc := trip.NewService(tripStore)

	plannerSvc := planner.NewService(dishStore, directorySvc, cfg.Planner.DefaultLimit, cfg.Planner.MaxLimit)

	seeder := demo.NewSeeder(directorySvc, dishSvc, tripSvc)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Dish:      dishSvc,
		Trip:      tripSvc,
		Directory: directorySvc,
		Planner:   plannerSvc,
		Impact:    impactSvc,
		QR:        qrSvc,
		Suggester: suggester,
		Seeder:    seeder,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
