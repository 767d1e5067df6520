package server

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sant0-9/healthiq/internal/logger"
	"github.com/sant0-9/healthiq/internal/pipeline"
	"github.com/sant0-9/healthiq/internal/profile"
)

// ProfileStore is what the profile endpoints need from storage.
type ProfileStore interface {
	Create(ctx context.Context, p profile.Profile) (profile.Profile, error)
	List(ctx context.Context) ([]profile.Profile, error)
}

type RouterConfig struct {
	Recommender    pipeline.Recommender
	Profiles       ProfileStore
	AllowedOrigins []string
	// StrictUpstream answers 502 when generation failed instead of 200
	// with the fallback text.
	StrictUpstream bool
	FilterTopics   bool
	RevealInterval time.Duration
	// Clock drives streamed reveals; nil means wall time.
	Clock clock.Clock
	Log   *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Log))

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type", "X-Requested-With"},
			ExposeHeaders: []string{StageHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	rec := &RecommendationHandler{
		recommender: cfg.Recommender,
		strict:      cfg.StrictUpstream,
		filter:      cfg.FilterTopics,
		interval:    cfg.RevealInterval,
		clock:       cfg.Clock,
		log:         cfg.Log,
	}
	profiles := &ProfileHandler{store: cfg.Profiles, log: cfg.Log}

	router.GET("/healthcheck", HealthCheck)
	// unprefixed alias of /api/recommendation
	router.POST("/recommendation", rec.Recommend)

	api := router.Group("/api")
	{
		api.POST("/recommendation", rec.Recommend)
		api.GET("/recommendation/stream", rec.Stream)
		api.POST("/submit", profiles.Submit)
		api.GET("/users", profiles.List)
	}

	return router
}
