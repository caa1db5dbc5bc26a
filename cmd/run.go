package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"wordler/api"
	"wordler/bot"
	"wordler/config"
	"wordler/database"
	"wordler/events"
	"wordler/imaging"
	"wordler/infrastructure"
	"wordler/infrastructure/observability"
	"wordler/repository"
	"wordler/service"
	"wordler/wordbank"
)

const (
	reapInterval     = time.Hour
	composerGap      = 10
	redisGuardPrefix = "wordler"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting wordler...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize metrics
	metricsProvider := observability.NewMetricsProvider(cfg)
	if err := metricsProvider.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsProvider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Error shutting down metrics provider")
		}
	}()

	// Initialize event bus and unit of work factory
	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Forward domain events to NATS when configured
	if cfg.NATSServers != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		if err := natsClient.EnsureDomainEventStream(); err != nil {
			return fmt.Errorf("failed to ensure event stream: %w", err)
		}
		infrastructure.NewEventForwarder(natsClient, cfg.OTelServiceName).Register(eventBus)
		log.Info("Forwarding domain events to NATS")
	}

	// Rendering
	renderer, err := imaging.NewGridRenderer(imaging.DefaultGridStyle)
	if err != nil {
		return fmt.Errorf("failed to initialize grid renderer: %w", err)
	}
	composer := imaging.NewComposer(composerGap)

	// Destination guard, shared through Redis when several instances run
	var guard service.DestinationGuard
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		guard = infrastructure.NewRedisDestinationGuard(redisClient, cfg.DestinationGuardWindow, redisGuardPrefix)
		log.WithField("addr", cfg.RedisAddr).Info("Using Redis destination guard")
	} else {
		guard = service.NewMemoryDestinationGuard(cfg.DestinationGuardWindow)
	}

	// Initialize services
	log.Info("Initializing services...")
	words := wordbank.Load(cfg.WordListPath)
	log.WithFields(log.Fields{
		"words":  words.Len(),
		"source": words.Source(),
	}).Info("Word bank loaded")

	clock := service.NewClock(cfg.Location())
	oauth := api.NewDiscordOAuth(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.DiscordRedirectURL)

	puzzleService := service.NewPuzzleService(uowFactory, words, clock, service.PuzzleConfig{
		RecencyWindowDays: cfg.RecencyWindowDays,
		Salt:              cfg.PuzzleSalt,
	}, metricsProvider)
	statsService := service.NewStatsService(uowFactory, cfg.LeaderboardMinGames)
	gameService := service.NewGameService(uowFactory, statsService, clock, metricsProvider)
	notificationService := service.NewNotificationService(uowFactory, clock, renderer, composer, guard, service.NotificationConfig{
		TTL: cfg.NotificationTTL,
		Share: service.ShareFormatter{
			Title: cfg.ShareTitle,
			URL:   cfg.FrontendURL,
		},
	}, metricsProvider)
	playerService := service.NewPlayerService(uowFactory, oauth, clock, cfg.GroupSyncMaxAge)
	destinationService := service.NewDestinationService(uowFactory, clock)

	eventBus.Subscribe(events.EventTypeGameCompleted, notificationService.HandleGameCompleted)
	log.Info("Services initialized successfully")

	server, err := api.NewServer(cfg, api.Dependencies{
		Puzzles:       puzzleService,
		Games:         gameService,
		Stats:         statsService,
		Notifications: notificationService,
		Players:       playerService,
		Destinations:  destinationService,
		Renderer:      renderer,
		Identity:      oauth,
		Groups:        oauth,
		Sessions:      api.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.Environment == "production"),
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	g.Go(func() error {
		runReaper(gctx, notificationService, reapInterval)
		return nil
	})

	if cfg.DiscordToken != "" {
		log.Info("Initializing Discord bot...")
		discordBot, err := bot.New(bot.Config{
			Token:               cfg.DiscordToken,
			PollInterval:        cfg.DeliveryPollInterval,
			LeaderboardMinGames: cfg.LeaderboardMinGames,
		}, destinationService, notificationService, statsService)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		log.Info("Discord bot initialized successfully")

		g.Go(func() error {
			<-gctx.Done()
			return discordBot.Close()
		})
	}

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"addr":        cfg.HTTPAddr,
	}).Info("wordler is running")

	err = g.Wait()

	// Let in-flight event handlers finish before the pool closes
	log.Info("Waiting for event handlers...")
	eventBus.Wait()
	log.Info("Shutdown completed")

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runReaper deletes expired notifications until ctx is cancelled
func runReaper(ctx context.Context, notifications service.NotificationService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := notifications.ReapExpired(ctx)
			if err != nil {
				log.WithError(err).Error("Failed to reap expired notifications")
				continue
			}
			if deleted > 0 {
				log.WithField("deleted", deleted).Info("Reaped expired notifications")
			}
		}
	}
}
