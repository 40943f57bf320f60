package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"askwiki/internal/config"
	"askwiki/internal/history"
	"askwiki/internal/llm"
	"askwiki/internal/pipeline"
	"askwiki/internal/search"
	"askwiki/internal/wiki"
)

// Server holds the pipeline stages and supporting services
type Server struct {
	cfg       *config.Config
	searcher  pipeline.Searcher
	extractor pipeline.Extractor
	completer pipeline.Completer
	pipeline  *pipeline.Pipeline
	store     *history.Store
	rdb       *redis.Client
}

// NewServer builds the pipeline from config. store and rdb may be nil.
func NewServer(cfg *config.Config, store *history.Store, rdb *redis.Client) *Server {
	searchTimeout := time.Duration(cfg.Search.TimeoutSeconds) * time.Second

	searcher := search.NewClient(
		cfg.Search.Endpoint,
		cfg.Search.APIKey,
		cfg.Search.EngineID,
		cfg.Search.MaxResults,
		searchTimeout,
	)
	extractor := wiki.NewExtractor(searchTimeout, wiki.Options{
		Paragraphs:          cfg.Pipeline.Paragraphs,
		StrictSelection:     cfg.Pipeline.StrictSelection,
		ReadabilityFallback: cfg.Pipeline.ReadabilityFallback,
		MaxPageSizeMB:       cfg.Pipeline.MaxPageSizeMB,
	})
	completer := llm.NewClient(
		cfg.OpenAI.Endpoint,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.BestOf,
	)

	pl := pipeline.New(searcher, extractor, completer)
	pl.RetryNextResult = cfg.Pipeline.RetryNextResult

	return &Server{
		cfg:       cfg,
		searcher:  searcher,
		extractor: extractor,
		completer: completer,
		pipeline:  pl,
		store:     store,
		rdb:       rdb,
	}
}

// SetupRouter registers the API routes under the configured subpath
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	group := r.Group(s.cfg.Server.Subpath)
	{
		group.GET("/health", healthHandler)

		window := time.Duration(s.cfg.RateLimit.WindowSeconds) * time.Second
		limited := group.Group("")
		limited.Use(RateLimitMiddleware(s.rdb, s.cfg.RateLimit.Requests, window))
		limited.POST("/ask", s.askHandler)
		limited.GET("/ws/ask", s.wsAskHandler)

		group.GET("/history", s.historyHandler)
	}

	return r
}
