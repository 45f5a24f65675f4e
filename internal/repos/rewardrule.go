package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type RewardRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rule *types.RewardRule) (*types.RewardRule, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RewardRule, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type rewardRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewardRuleRepo(db *gorm.DB, baseLog *logger.Logger) RewardRuleRepo {
	return &rewardRuleRepo{db: db, log: baseLog.With("repo", "RewardRuleRepo")}
}

func (r *rewardRuleRepo) Create(ctx context.Context, tx *gorm.DB, rule *types.RewardRule) (*types.RewardRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *rewardRuleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.RewardRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rule types.RewardRule
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *rewardRuleRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Model(&types.RewardRule{}).Where("id = ?", id).Updates(updates).Error
}

func (r *rewardRuleRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Where("id = ?", id).Delete(&types.RewardRule{}).Error
}
