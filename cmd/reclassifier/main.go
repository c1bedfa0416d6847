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

	"github.com/Athreyasp/sentiment-dashboard-sub001/db"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/app"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/config"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/events"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/pipeline"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/repository"
)

// Worker that retries external classification for articles stored with the
// keyword fallback.
func main() {

	godotenv.Load()

	cfg := config.Load()
	logger := app.SetupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := db.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer rdb.Close()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	gen := app.Generator(cfg, httpClient)
	if gen == nil {
		slog.Error("no LLM provider configured, nothing to reclassify with")
		os.Exit(1)
	}
	classifier, _, err := app.Classifier(cfg, gen, logger)
	if err != nil {
		log.Fatalf("error loading classifier: %v", err)
	}

	pubs := events.Multi{events.Counted("redis", events.NewRedisPublisher(rdb, events.DefaultRedisChannel))}
	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			log.Fatalf("error connecting to NATS: %v", err)
		}
		defer nc.Drain()
		pubs = append(pubs, events.Counted("nats", events.NewNATSPublisher(nc, events.DefaultNATSSubject)))
	}

	queue := db.NewRedisQueue(rdb, db.ReclassifyQueueKey, db.DeadLetterKey)
	if pending, err := queue.Len(ctx); err == nil {
		slog.Info("reclassify queue", "pending", pending)
	}

	articles := repository.NewArticleRepository(conn)
	worker := pipeline.NewReclassifier(queue, articles, classifier, pubs, logger)

	if err := worker.Run(ctx, cfg.ReclassifyPoll); err != nil {
		slog.Error("reclassifier stopped", "error", err)
		os.Exit(1)
	}
}
