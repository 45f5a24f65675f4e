package app

import (
	"fmt"

	"github.com/greenloop/greenloop-backend/internal/clients/analyzer"
	"github.com/greenloop/greenloop-backend/internal/clients/gcp"
	"github.com/greenloop/greenloop-backend/internal/clients/redis"
	"github.com/greenloop/greenloop-backend/internal/logger"
)

type Clients struct {
	Bucket   gcp.BucketService
	Analyzer analyzer.Analyzer
	Cache    redis.Cache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket service: %w", err)
	}

	var claimAnalyzer analyzer.Analyzer
	switch cfg.AnalyzerProvider {
	case "gcp_vision":
		claimAnalyzer, err = analyzer.NewVisionAnalyzer(log)
	default:
		claimAnalyzer, err = analyzer.NewHTTPAnalyzer(log)
	}
	if err != nil {
		return Clients{}, fmt.Errorf("init claim analyzer (%s): %w", cfg.AnalyzerProvider, err)
	}

	// The cache is optional: without redis the dashboard recomputes stats on
	// every request.
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Redis unavailable, dashboard stats caching disabled", "error", err)
		cache = nil
	}

	return Clients{
		Bucket:   bucket,
		Analyzer: claimAnalyzer,
		Cache:    cache,
	}, nil
}
