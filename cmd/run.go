package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dinks/application"
	"dinks/bot"
	"dinks/config"
	"dinks/database"
	"dinks/events"
	"dinks/infrastructure"
	"dinks/infrastructure/observability"
	"dinks/pricefeed"
	"dinks/repository"
	"dinks/service"

	log "github.com/sirupsen/logrus"
)

// Cap checks fall back to the client's last quote during feed outages
var _ service.LastPriceSource = (*pricefeed.Client)(nil)

// configureLogging applies the configured level, falling back to info
func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)
	log.Info("Starting dinks bot...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus, cfg.Economy.DefaultLevel)

	// Metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.Warnf("Failed to initialize metrics, continuing without them: %v", err)
	}
	metrics := observability.GetMetrics()
	if metrics != nil {
		metrics.Subscribe(eventBus)
		service.ObserveConflictRetries(metrics.RecordConflictRetry)
	}

	// Optional NATS forwarding of economy events
	var natsClient *infrastructure.NATSClient
	if strings.TrimSpace(cfg.NATSServers) != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			log.Warnf("Failed to connect to NATS, event forwarding disabled: %v", err)
			natsClient = nil
		} else {
			if err := natsClient.EnsureStream(infrastructure.EconomyStreamName, infrastructure.EventSubjects()); err != nil {
				log.Warnf("Failed to ensure NATS stream %s: %v", infrastructure.EconomyStreamName, err)
			}
			forwarder := infrastructure.NewEventForwarder(natsClient)
			if metrics != nil {
				forwarder.OnForward(metrics.RecordNATSPublish)
			}
			forwarder.Attach(eventBus)
			log.Info("Forwarding economy events to NATS")
		}
	}

	// Initialize services
	prices := pricefeed.NewClient(pricefeed.DefaultConfig(cfg.BitcoinPriceURL, cfg.BitcoinPriceCurrency))
	rng := service.NewRandomSource()
	interestService := service.NewInterestService(uowFactory, cfg.Economy, prices)
	services := bot.Services{
		Ledger:   service.NewLedgerService(uowFactory, cfg.Economy, prices),
		Bank:     service.NewBankService(uowFactory, cfg.Economy, prices),
		Rob:      service.NewRobService(uowFactory, cfg.Economy, prices, rng),
		Prison:   service.NewPrisonService(uowFactory, cfg.Economy),
		Gambling: service.NewGamblingService(uowFactory, cfg.Economy, prices, rng),
		Nightly:  service.NewNightlyService(uowFactory, cfg.Economy, prices, time.Now),
	}

	// Background workers
	worker := application.NewInterestAccrualWorker(interestService, time.Duration(cfg.InterestTickMinutes)*time.Minute)
	stopWorker := worker.Start(ctx)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	}, services)
	if err != nil {
		stopWorker()
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Errorf("Error closing NATS connection: %v", err)
		}
	}
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Errorf("Error shutting down metrics: %v", err)
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}
