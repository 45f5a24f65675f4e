package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type BinRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bin *types.Bin) (*types.Bin, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Bin, error)
	// GetWithContext loads the bin with its material, reward rule, store and
	// organization in one query, as the submission pipeline needs all of them.
	GetWithContext(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Bin, error)
	List(ctx context.Context, tx *gorm.DB, filter BinFilter, limit, offset int) ([]*types.Bin, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type BinFilter struct {
	Status     string
	StoreID    *uuid.UUID
	MaterialID *uuid.UUID
}

type binRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBinRepo(db *gorm.DB, baseLog *logger.Logger) BinRepo {
	return &binRepo{db: db, log: baseLog.With("repo", "BinRepo")}
}

func (r *binRepo) Create(ctx context.Context, tx *gorm.DB, bin *types.Bin) (*types.Bin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(bin).Error; err != nil {
		return nil, err
	}
	return bin, nil
}

func (r *binRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Bin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var bin types.Bin
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&bin).Error; err != nil {
		return nil, err
	}
	return &bin, nil
}

func (r *binRepo) GetWithContext(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Bin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var bin types.Bin
	if err := transaction.WithContext(ctx).
		Preload("Material").
		Preload("Material.RewardRule").
		Preload("Store").
		Preload("Store.Organization").
		Where("id = ?", id).
		First(&bin).Error; err != nil {
		return nil, err
	}
	return &bin, nil
}

func (r *binRepo) List(ctx context.Context, tx *gorm.DB, filter BinFilter, limit, offset int) ([]*types.Bin, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Model(&types.Bin{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.MaterialID != nil {
		query = query.Where("material_id = ?", *filter.MaterialID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bins []*types.Bin
	if err := query.
		Preload("Material").
		Preload("Store").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&bins).Error; err != nil {
		return nil, 0, err
	}
	return bins, total, nil
}

func (r *binRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.Bin{}).Where("id = ?", id).Updates(updates).Error
}

func (r *binRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Bin{}).Error
}
