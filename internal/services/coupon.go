package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type CouponService interface {
	Create(ctx context.Context, coupon *types.Coupon) (*types.Coupon, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Coupon, error)
	List(ctx context.Context, limit, offset int) ([]*types.Coupon, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type couponService struct {
	db         *gorm.DB
	log        *logger.Logger
	couponRepo repos.CouponRepo
}

func NewCouponService(db *gorm.DB, baseLog *logger.Logger, couponRepo repos.CouponRepo) CouponService {
	return &couponService{
		db:         db,
		log:        baseLog.With("service", "CouponService"),
		couponRepo: couponRepo,
	}
}

func (s *couponService) Create(ctx context.Context, coupon *types.Coupon) (*types.Coupon, error) {
	coupon.Title = strings.TrimSpace(coupon.Title)
	if coupon.Title == "" {
		return nil, fmt.Errorf("coupon title is required")
	}
	if coupon.PointCost <= 0 {
		return nil, fmt.Errorf("coupon point cost must be positive")
	}
	coupon.ID = uuid.New()
	return s.couponRepo.Create(ctx, nil, coupon)
}

func (s *couponService) Get(ctx context.Context, id uuid.UUID) (*types.Coupon, error) {
	return s.couponRepo.GetByID(ctx, nil, id)
}

func (s *couponService) List(ctx context.Context, limit, offset int) ([]*types.Coupon, int64, error) {
	return s.couponRepo.List(ctx, nil, limit, offset)
}

func (s *couponService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Coupon, error) {
	if err := s.couponRepo.Update(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.couponRepo.GetByID(ctx, nil, id)
}

func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.couponRepo.DeleteByID(ctx, nil, id)
}
