package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/courtside/internal/config"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/countdown"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/db"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/hub"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/logging"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/middleware"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/poller"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/providers/sportsdata"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/ratelimit"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/season"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/sports/basketball_ncaa"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/views"
	"github.com/XavierBriggs/fortuna/services/courtside/internal/widgets"
	"github.com/XavierBriggs/fortuna/services/courtside/pkg/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("courtside stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs widgets, the rate limiter and the update stream
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("parsing redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	err = redisClient.Ping(pingCtx).Err()
	pingCancel()
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	logger.Info("connected to redis")

	notesDB, err := db.NewNotesPostgres(cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("connecting to notes db: %w", err)
	}
	defer notesDB.Close()

	schemaCtx, schemaCancel := context.WithTimeout(ctx, 5*time.Second)
	err = notesDB.EnsureSchema(schemaCtx)
	schemaCancel()
	if err != nil {
		return err
	}
	logger.Info("connected to notes db")

	auth, err := sportsdata.NewAuthStrategy(cfg.SportsData.AuthMode, cfg.SportsData.APIKey)
	if err != nil {
		return err
	}
	var (
		limiter sportsdata.Limiter
		tokens  handlers.TokenCounter
	)
	if cfg.SportsData.RequestsPerMin > 0 {
		bucket := ratelimit.NewTokenBucket(redisClient, "courtside:ratelimit:tokens", cfg.SportsData.RequestsPerMin)
		limiter, tokens = bucket, bucket
	}
	provider := sportsdata.New(sportsdata.Options{
		ScoresBaseURL: cfg.SportsData.ScoresBaseURL,
		StatsBaseURL:  cfg.SportsData.StatsBaseURL,
		OddsBaseURL:   cfg.SportsData.OddsBaseURL,
		Auth:          auth,
		Limiter:       limiter,
		Timeout:       cfg.SportsData.Timeout,
	})

	normalizer := basketball_ncaa.New(basketball_ncaa.TeamIdentity{
		Key:      cfg.Team.Key,
		ID:       cfg.Team.ID,
		School:   cfg.Team.School,
		Name:     cfg.Team.Name,
		FullName: cfg.Team.FullName,
		City:     cfg.Team.City,
	}, cfg.Schedule.Location())
	// feed times, views and the daily sync share the normalizer's zone
	loc := normalizer.Location()

	svc := season.NewService(
		provider,
		normalizer,
		season.NewStore(),
		publisher.NewStreamPublisher(redisClient),
		logger.Named("season"),
		cfg.Schedule.DefaultSeason,
	)

	h := hub.NewHub(logger.Named("hub"))
	go h.Run(ctx)

	clock := countdown.New(countdown.DisplayFunc(h.ShowCountdown), logger.Named("countdown"))
	defer clock.Stop()

	// Every season change retargets the countdown at the next tip-off
	svc.OnChange(func(snap *season.Snapshot) {
		clock.Stop()
		h.Broadcast(models.MessageTypeSeasonLoaded, snap.Summary())
		if next, ok := basketball_ncaa.NextGame(snap.Games, time.Now()); ok {
			clock.Start(next.DateTime)
		}
	})

	go func() {
		loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
		defer loadCancel()
		if _, err := svc.Current(loadCtx); err != nil {
			logger.Warn("initial season load failed", zap.Int("season", svc.CurrentSeason()), zap.Error(err))
		}
	}()

	live := poller.NewLivePoller(svc, cfg.Schedule.LivePollPeriod, logger.Named("live"))
	go live.Run(ctx)

	seasonSync, err := poller.NewSeasonSync(svc, cfg.Schedule.SeasonCheckCron, loc, logger.Named("season_sync"))
	if err != nil {
		return err
	}
	seasonSync.Start()
	defer seasonSync.Stop()
	logger.Info("season sync scheduled", zap.Time("next", seasonSync.Next()))

	handler := handlers.NewHandler(handlers.Config{
		Seasons: svc,
		Renderer: views.NewRenderer(views.Options{
			Location:  loc,
			TicketURL: cfg.Team.TicketURL,
			HomeVenue: cfg.Team.HomeVenue,
		}),
		Countdown:      clock,
		Widgets:        widgets.NewService(redisClient, notesDB),
		Hub:            h,
		Health:         []handlers.Pinger{notesDB, redisPinger{redisClient}},
		RateLimit:      tokens,
		TeamName:       cfg.Team.FullName,
		AllowedOrigins: cfg.Server.CORSOrigins,
		Logger:         logger.Named("http"),
		Context:        ctx,
	})

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger.Named("access")))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handler.Mount(r)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("courtside listening", zap.String("addr", cfg.Server.Addr), zap.String("team", cfg.Team.FullName))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("received signal", zap.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
	}
	return nil
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
