package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type StoreRepo interface {
	Create(ctx context.Context, tx *gorm.DB, store *types.Store) (*types.Store, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Store, error)
	List(ctx context.Context, tx *gorm.DB, organizationID *uuid.UUID, limit, offset int) ([]*types.Store, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type storeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoreRepo(db *gorm.DB, baseLog *logger.Logger) StoreRepo {
	return &storeRepo{db: db, log: baseLog.With("repo", "StoreRepo")}
}

func (r *storeRepo) Create(ctx context.Context, tx *gorm.DB, store *types.Store) (*types.Store, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

func (r *storeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Store, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var store types.Store
	if err := transaction.WithContext(ctx).
		Preload("Organization").
		Where("id = ?", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) List(ctx context.Context, tx *gorm.DB, organizationID *uuid.UUID, limit, offset int) ([]*types.Store, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).Model(&types.Store{})
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var stores []*types.Store
	if err := query.
		Preload("Organization").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

func (r *storeRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.Store{}).Where("id = ?", id).Updates(updates).Error
}

func (r *storeRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Store{}).Error
}
