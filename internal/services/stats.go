package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/clients/redis"
	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/types"
)

const statsCacheKey = "dashboard:stats"

type DashboardStats struct {
	Organizations     int64 `json:"organizations"`
	Stores            int64 `json:"stores"`
	Bins              int64 `json:"bins"`
	ActiveBins        int64 `json:"active_bins"`
	Materials         int64 `json:"materials"`
	Users             int64 `json:"users"`
	TotalPointsIssued int64 `json:"total_points_issued"`
	SubmissionsLast7d int64 `json:"submissions_last_7d"`
}

type StatsService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type statsService struct {
	db          *gorm.DB
	log         *logger.Logger
	historyRepo repos.RecycleHistoryRepo
	totalRepo   repos.UserTotalPointRepo
	cache       redis.Cache
	cacheTTL    time.Duration
}

// NewStatsService computes read-only dashboard aggregates. The cache is
// optional; with a nil cache every call hits the database.
func NewStatsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	historyRepo repos.RecycleHistoryRepo,
	totalRepo repos.UserTotalPointRepo,
	cache redis.Cache,
	cacheTTL time.Duration,
) StatsService {
	return &statsService{
		db:          db,
		log:         baseLog.With("service", "StatsService"),
		historyRepo: historyRepo,
		totalRepo:   totalRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

func (s *statsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		hit, err := s.cache.GetJSON(ctx, statsCacheKey, &cached)
		if err != nil {
			s.log.Warn("Stats cache read failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	stats := &DashboardStats{}
	counts := []struct {
		model any
		dest  *int64
	}{
		{&types.Organization{}, &stats.Organizations},
		{&types.Store{}, &stats.Stores},
		{&types.Bin{}, &stats.Bins},
		{&types.Material{}, &stats.Materials},
		{&types.User{}, &stats.Users},
	}
	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	if err := s.db.WithContext(ctx).
		Model(&types.Bin{}).
		Where("status = ?", types.BinStatusActive).
		Count(&stats.ActiveBins).Error; err != nil {
		return nil, err
	}

	issued, err := s.totalRepo.SumAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats.TotalPointsIssued = issued

	recent, err := s.historyRepo.CountSince(ctx, nil, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	stats.SubmissionsLast7d = recent

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statsCacheKey, stats, s.cacheTTL); err != nil {
			s.log.Warn("Stats cache write failed", "error", err)
		}
	}
	return stats, nil
}
