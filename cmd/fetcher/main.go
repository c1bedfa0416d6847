package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Athreyasp/sentiment-dashboard-sub001/db"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/app"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/config"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/events"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/pipeline"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/repository"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/news"
)

// One ingestion pass, for cron or a scheduler. Exits 1 when the batch could
// not be persisted.
func main() {

	godotenv.Load()

	cfg := config.Load()
	logger := app.SetupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	var pubs events.Multi
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = db.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer rdb.Close()
		pubs = append(pubs, events.Counted("redis", events.NewRedisPublisher(rdb, events.DefaultRedisChannel)))
	}
	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			log.Fatalf("error connecting to NATS: %v", err)
		}
		// Drain flushes pending publishes before exit.
		defer nc.Drain()
		pubs = append(pubs, events.Counted("nats", events.NewNATSPublisher(nc, events.DefaultNATSSubject)))
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	articles := repository.NewArticleRepository(conn)

	gen := app.Generator(cfg, httpClient)
	classifier, _, err := app.Classifier(cfg, gen, logger)
	if err != nil {
		log.Fatalf("error loading classifier: %v", err)
	}

	var retry *pipeline.Reclassifier
	if rdb != nil && gen != nil {
		queue := db.NewRedisQueue(rdb, db.ReclassifyQueueKey, db.DeadLetterKey)
		retry = pipeline.NewReclassifier(queue, articles, classifier, pubs, logger)
	}

	sources := app.Sources(cfg, httpClient)
	if len(sources) == 0 {
		slog.Error("no news sources configured")
		os.Exit(1)
	}

	ingester := pipeline.NewIngester(pipeline.IngesterDeps{
		Fetcher:    news.NewFetcher(cfg.FetchConcurrency, logger),
		Sources:    sources,
		Classifier: classifier,
		Store:      articles,
		Publisher:  pubs,
		Retry:      retry,
		Logger:     logger,
	})

	result, err := ingester.Run(ctx)
	if err != nil {
		slog.Error("ingestion failed", "run_id", result.RunID, "error", err)
		conn.Close()
		os.Exit(1)
	}

	slog.Info("fetch complete",
		"run_id", result.RunID,
		"inserted", result.Inserted,
		"skipped_existing", result.SkippedExisting,
		"failed_sources", result.FailedSources,
		"duration_ms", result.DurationMS,
	)
}
