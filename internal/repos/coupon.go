package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type CouponRepo interface {
	Create(ctx context.Context, tx *gorm.DB, coupon *types.Coupon) (*types.Coupon, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Coupon, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Coupon, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type couponRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCouponRepo(db *gorm.DB, baseLog *logger.Logger) CouponRepo {
	return &couponRepo{db: db, log: baseLog.With("repo", "CouponRepo")}
}

func (r *couponRepo) Create(ctx context.Context, tx *gorm.DB, coupon *types.Coupon) (*types.Coupon, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(coupon).Error; err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *couponRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Coupon, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var coupon types.Coupon
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Coupon, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	if err := transaction.WithContext(ctx).Model(&types.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var coupons []*types.Coupon
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

func (r *couponRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.Coupon{}).Where("id = ?", id).Updates(updates).Error
}

func (r *couponRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.Coupon{}).Error
}
