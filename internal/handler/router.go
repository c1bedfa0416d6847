package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Athreyasp/sentiment-dashboard-sub001/internal/middleware"
)

var allowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

type RouterDeps struct {
	News        *NewsHandler
	Functions   *FunctionsHandler
	Predictions *PredictionHandler
	Stream      *StreamHandler
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// AllowedOrigins narrows CORS; empty allows every origin.
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Prometheus())
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))
	r.Use(preflight())

	fn := r.Group("/functions")
	fn.POST("/refresh-news", deps.Functions.RefreshNews)
	fn.POST("/fetch-quote", deps.Functions.FetchQuote)
	fn.POST("/predict", deps.Functions.Predict)

	r.GET("/news", deps.News.GetNews)
	r.GET("/news/:id", deps.News.GetArticle)
	if deps.Stream != nil {
		r.GET("/news/stream", deps.Stream.Stream)
	}
	r.GET("/predictions", deps.Predictions.GetPredictions)
	r.GET("/health", deps.News.GetHealth)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not found")
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              allowedHeaders,
		OptionsResponseStatusCode: http.StatusOK,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// preflight answers OPTIONS on any path, including requests the CORS
// middleware let through for lacking an Origin header.
func preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
