package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type HistoryService interface {
	List(ctx context.Context, filter repos.HistoryFilter, limit, offset int) ([]*types.RecycleHistory, int64, error)
}

type historyService struct {
	db          *gorm.DB
	log         *logger.Logger
	historyRepo repos.RecycleHistoryRepo
}

func NewHistoryService(db *gorm.DB, baseLog *logger.Logger, historyRepo repos.RecycleHistoryRepo) HistoryService {
	return &historyService{
		db:          db,
		log:         baseLog.With("service", "HistoryService"),
		historyRepo: historyRepo,
	}
}

func (s *historyService) List(ctx context.Context, filter repos.HistoryFilter, limit, offset int) ([]*types.RecycleHistory, int64, error) {
	return s.historyRepo.List(ctx, nil, filter, limit, offset)
}
