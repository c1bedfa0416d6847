package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Athreyasp/sentiment-dashboard-sub001/db"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/app"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/config"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/events"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/handler"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/pipeline"
	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/repository"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/news"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/predict"
	"github.com/Athreyasp/sentiment-dashboard-sub001/pkg/quote"
)

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

	if err := db.Migrate(ctx, conn, cfg.MigrationsDir); err != nil {
		log.Fatalf("error running migrations: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = db.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		logger.Warn("REDIS_URL not set, quote cache and reclassify queue disabled")
	}

	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = events.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			log.Fatalf("error connecting to NATS: %v", err)
		}
		defer nc.Close()
	}

	broker := events.NewBroker()
	defer broker.Close()
	publisher := buildPublisher(ctx, broker, rdb, nc, logger)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	articles := repository.NewArticleRepository(conn)
	quotes := repository.NewQuoteRepository(conn)
	predictions := repository.NewPredictionRepository(conn)

	gen := app.Generator(cfg, httpClient)
	classifier, _, err := app.Classifier(cfg, gen, logger)
	if err != nil {
		log.Fatalf("error loading classifier: %v", err)
	}

	var retry *pipeline.Reclassifier
	if rdb != nil && gen != nil {
		queue := db.NewRedisQueue(rdb, db.ReclassifyQueueKey, db.DeadLetterKey)
		retry = pipeline.NewReclassifier(queue, articles, classifier, publisher, logger)
	}

	sources := app.Sources(cfg, httpClient)
	ingester := pipeline.NewIngester(pipeline.IngesterDeps{
		Fetcher:    news.NewFetcher(cfg.FetchConcurrency, logger),
		Sources:    sources,
		Classifier: classifier,
		Store:      articles,
		Publisher:  publisher,
		Retry:      retry,
		Logger:     logger,
	})

	var quoteFetcher quote.Fetcher = quote.NewClient(cfg.QuoteAPIURL, cfg.QuoteSymbolSuffix, httpClient)
	if rdb != nil {
		quoteFetcher = quote.NewCachedFetcher(quoteFetcher, rdb, cfg.QuoteCacheTTL, logger)
	}

	seed := cfg.PredictionSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	predictor := predict.NewSeeded(seed)

	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(handler.RouterDeps{
		News: handler.NewNewsHandler(articles),
		Functions: handler.NewFunctionsHandler(handler.FunctionsDeps{
			Ingester:    ingester,
			Quotes:      quoteFetcher,
			QuoteStore:  quotes,
			Predictor:   predictor,
			Predictions: predictions,
		}),
		Predictions:    handler.NewPredictionHandler(predictions),
		Stream:         handler.NewStreamHandler(broker, 0),
		Metrics:        promhttp.Handler(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", "addr", srv.Addr, "sources", len(sources))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Close the broker first so open SSE streams return.
	broker.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildPublisher routes change events to every configured backend. With
// Redis available the in-process broker is fed through the Redis channel, so
// events from the fetcher and reclassifier binaries reach SSE clients too.
func buildPublisher(ctx context.Context, broker *events.Broker, rdb *redis.Client, nc *nats.Conn, logger *slog.Logger) events.Publisher {
	var pubs events.Multi

	if rdb != nil {
		pubs = append(pubs, events.Counted("redis", events.NewRedisPublisher(rdb, events.DefaultRedisChannel)))
		go func() {
			if err := events.Relay(ctx, rdb, events.DefaultRedisChannel, broker, logger); err != nil {
				logger.Error("event relay stopped", "error", err)
			}
		}()
	} else {
		pubs = append(pubs, events.Counted("broker", broker))
	}

	if nc != nil {
		pubs = append(pubs, events.Counted("nats", events.NewNATSPublisher(nc, events.DefaultNATSSubject)))
	}

	return pubs
}
