package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/lotwatcher/config"
	"sjsage522/lotwatcher/helpers"
	"sjsage522/lotwatcher/internal/bidstatus"
	"sjsage522/lotwatcher/internal/crawler"
	"sjsage522/lotwatcher/internal/monitor"
	"sjsage522/lotwatcher/internal/record"
	"sjsage522/lotwatcher/logger"
	"sjsage522/lotwatcher/services/cache"
	"sjsage522/lotwatcher/services/publisher"
	"sjsage522/lotwatcher/services/store"
	"sjsage522/lotwatcher/services/worker"

	"github.com/joho/godotenv"
)

// winnerEventKey is the redis stream field and the amqp routing key of winner events
const winnerEventKey = "auction.winner"

func main() {
	// Load environment variables
	godotenv.Load()

	// Load and validate configuration
	cfg := config.LoadConfig()
	if len(os.Args) > 1 {
		cfg.ListingURL = os.Args[1]
	}
	if err := cfg.Validate(); err != nil {
		logger.Init()
		logger.Default.Fatal().Err(err).Msg("Invalid configuration")
	}

	listing, _ := helpers.ListingName(cfg.ListingURL)

	// One log file per listing and day
	logFile, err := logger.InitWithFile(logger.FileName(cfg.LogDir, listing, time.Now()))
	if err != nil {
		logger.Init()
		logger.Default.Fatal().Err(err).Msg("Failed to open log file")
	}
	log := logger.Default

	helpers.SetTimeout(cfg.HTTPTimeout)

	log.Info().
		Str("environment", cfg.Environment).
		Str("listing", listing).
		Str("url", cfg.ListingURL).
		Strs("sinks", cfg.RecordSinks).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, cfg, listing)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	m := newMonitor(cfg, listing, services, monitor.SystemClock)

	w := worker.NewWorker(
		ctx,
		m,
		listing,
		helpers.NewLogger(logger.ForWorker()),
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting auction worker")
		workerDone <- w.Start()
	}()

	exitCode := 0

	// Wait for shutdown signal or worker error. A monitor asleep until the
	// auction closes is not woken; the process just exits.
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
			exitCode = 1
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
	services.Cleanup()
	logFile.Close()
	os.Exit(exitCode)
}

// Services holds all the initialized services
type Services struct {
	Cache      cache.CacheService
	Publishers []publisher.Publisher
	Store      *store.PostgresStore
	Recorder   *record.MultiRecorder
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for _, p := range s.Publishers {
		if err := p.Close(); err != nil {
			logger.ForPublisher().Warn().Err(err).Msg("Failed to close publisher")
		}
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices connects the optional backends and builds the record sinks
func initializeServices(ctx context.Context, cfg *config.Config, listing string) (*Services, error) {
	services := &Services{}

	// The rate-limit block needs memcache; without it every fetch goes out
	if cfg.MemcacheAddr != "" {
		cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := cacheService.Ping(); err != nil {
			logger.ForCache().Warn().Err(err).Msg("Memcache unreachable, rate-limit blocking disabled")
		} else {
			services.Cache = cacheService
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	}

	// Remote sinks only fail the run when no local copy is written
	recorderLog := helpers.NewLogger(logger.ForRecorder())
	keepsLocalCopy := cfg.HasSink(config.SinkCSV) || cfg.HasSink(config.SinkConsole)
	remote := func(r record.Recorder) record.Recorder {
		if keepsLocalCopy {
			return record.NewBestEffortRecorder(r, recorderLog)
		}
		return r
	}

	var sinks []record.Recorder
	for _, name := range cfg.RecordSinks {
		switch name {
		case config.SinkCSV:
			sinks = append(sinks, record.NewCSVRecorder(cfg.OutputDir, listing))

		case config.SinkConsole:
			sinks = append(sinks, record.NewConsoleRecorder(os.Stdout))

		case config.SinkRedis:
			redisPublisher := publisher.NewRedisPublisher(
				cfg.RedisAddr,
				cfg.RedisDB,
				cfg.RedisStream,
				cfg.RedisStreamMaxLength,
			)
			if err := redisPublisher.Ping(ctx); err != nil {
				services.Cleanup()
				return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
			}
			services.Publishers = append(services.Publishers, redisPublisher)
			sinks = append(sinks, remote(record.NewPublisherRecorder(config.SinkRedis, redisPublisher, winnerEventKey)))

			logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
				cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

		case config.SinkAMQP:
			amqpPublisher, err := publisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
			if err != nil {
				services.Cleanup()
				return nil, err
			}
			services.Publishers = append(services.Publishers, amqpPublisher)
			sinks = append(sinks, remote(record.NewPublisherRecorder(config.SinkAMQP, amqpPublisher, winnerEventKey)))

			logger.Info("Connected to RabbitMQ (exchange: %s)", cfg.AMQPExchange)

		case config.SinkPostgres:
			pgStore, err := store.NewPostgresStore(ctx, cfg.PostgresDSN, cfg.PostgresTable)
			if err != nil {
				services.Cleanup()
				return nil, err
			}
			services.Store = pgStore
			sinks = append(sinks, remote(record.NewStoreRecorder(pgStore)))

			logger.Info("Connected to Postgres (table: %s)", cfg.PostgresTable)
		}
	}
	services.Recorder = record.NewMultiRecorder(sinks...)

	logger.ForRecorder().Info().
		Strs("sinks", cfg.RecordSinks).
		Str("output_dir", cfg.OutputDir).
		Msg("Record sinks ready")

	return services, nil
}

// newMonitor wires the page source, extractor and status fetcher for one listing
func newMonitor(cfg *config.Config, listing string, services *Services, clock monitor.Clock) *monitor.Monitor {
	var source crawler.PageSource
	switch cfg.PageFetcher {
	case "colly":
		source = crawler.NewCollySource(cfg.ListingURL, listing, services.Cache, cfg.RateLimitBlock, cfg.HTTPTimeout)
	default:
		source = crawler.NewHTTPSource(cfg.ListingURL, listing, services.Cache, cfg.RateLimitBlock)
	}

	var extractor crawler.Extractor
	switch cfg.Extractor {
	case "document":
		extractor = crawler.NewDocumentExtractor(listing)
	default:
		extractor = crawler.NewRegexExtractor(listing)
	}

	fetcher := bidstatus.NewHTTPFetcher(
		cfg.StatusBaseURL,
		cfg.ListingURL,
		listing,
		helpers.NewLogger(logger.ForFetcher(listing)),
	)

	return monitor.NewMonitor(
		source,
		extractor,
		fetcher,
		services.Recorder,
		helpers.NewLogger(logger.ForMonitor(listing)),
		monitor.Options{
			Listing:        listing,
			ExtractBackoff: cfg.ExtractBackoff,
			RepollFloor:    cfg.RepollFloor,
			Clock:          clock,
		},
	)
}
