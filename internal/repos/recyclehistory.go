package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type RecycleHistoryRepo interface {
	// Create appends a history row. History is append-only: there is
	// deliberately no update or delete method on this repo.
	Create(ctx context.Context, tx *gorm.DB, history *types.RecycleHistory) (*types.RecycleHistory, error)
	List(ctx context.Context, tx *gorm.DB, filter HistoryFilter, limit, offset int) ([]*types.RecycleHistory, int64, error)
	SumPointsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	ListMediaURLs(ctx context.Context, tx *gorm.DB) ([]string, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
}

type HistoryFilter struct {
	UserID *uuid.UUID
	BinID  *uuid.UUID
}

type recycleHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecycleHistoryRepo(db *gorm.DB, baseLog *logger.Logger) RecycleHistoryRepo {
	return &recycleHistoryRepo{db: db, log: baseLog.With("repo", "RecycleHistoryRepo")}
}

func (r *recycleHistoryRepo) Create(ctx context.Context, tx *gorm.DB, history *types.RecycleHistory) (*types.RecycleHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (r *recycleHistoryRepo) List(ctx context.Context, tx *gorm.DB, filter HistoryFilter, limit, offset int) ([]*types.RecycleHistory, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Model(&types.RecycleHistory{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.BinID != nil {
		query = query.Where("bin_id = ?", *filter.BinID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var histories []*types.RecycleHistory
	if err := query.
		Preload("Bin").
		Preload("Bin.Material").
		Order("recycled_at DESC").
		Limit(limit).Offset(offset).
		Find(&histories).Error; err != nil {
		return nil, 0, err
	}
	return histories, total, nil
}

func (r *recycleHistoryRepo) SumPointsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sum int64
	if err := transaction.WithContext(ctx).
		Model(&types.RecycleHistory{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *recycleHistoryRepo) ListMediaURLs(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var urls []string
	if err := transaction.WithContext(ctx).
		Model(&types.RecycleHistory{}).
		Pluck("media_url", &urls).Error; err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *recycleHistoryRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RecycleHistory{}).
		Where("recycled_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
