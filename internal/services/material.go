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

// RewardRuleInput is the inline rule payload accepted by material
// create/update. Unit must be positive: the submission pipeline divides
// by it without re-checking, so a zero unit is rejected here, at the
// rule-creation boundary.
type RewardRuleInput struct {
	Unit     float64 `json:"unit"`
	Point    int     `json:"point"`
	UnitType string  `json:"unit_type"`
}

type MaterialService interface {
	Create(ctx context.Context, material *types.Material, rule *RewardRuleInput) (*types.Material, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Material, error)
	List(ctx context.Context, limit, offset int) ([]*types.Material, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}, rule *RewardRuleInput) (*types.Material, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type materialService struct {
	db           *gorm.DB
	log          *logger.Logger
	materialRepo repos.MaterialRepo
	ruleRepo     repos.RewardRuleRepo
}

func NewMaterialService(
	db *gorm.DB,
	baseLog *logger.Logger,
	materialRepo repos.MaterialRepo,
	ruleRepo repos.RewardRuleRepo,
) MaterialService {
	return &materialService{
		db:           db,
		log:          baseLog.With("service", "MaterialService"),
		materialRepo: materialRepo,
		ruleRepo:     ruleRepo,
	}
}

func validateRuleInput(rule *RewardRuleInput) error {
	if rule.Unit <= 0 {
		return fmt.Errorf("reward rule unit must be positive, got %v", rule.Unit)
	}
	if rule.Point < 0 {
		return fmt.Errorf("reward rule point must not be negative, got %d", rule.Point)
	}
	return nil
}

func (s *materialService) Create(ctx context.Context, material *types.Material, rule *RewardRuleInput) (*types.Material, error) {
	material.Name = strings.TrimSpace(material.Name)
	if material.Name == "" {
		return nil, fmt.Errorf("material name is required")
	}
	if rule != nil {
		if err := validateRuleInput(rule); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rule != nil {
			created, err := s.ruleRepo.Create(ctx, tx, &types.RewardRule{
				ID:       uuid.New(),
				Unit:     rule.Unit,
				Point:    rule.Point,
				UnitType: rule.UnitType,
			})
			if err != nil {
				return fmt.Errorf("create reward rule: %w", err)
			}
			material.RewardRuleID = &created.ID
		}
		material.ID = uuid.New()
		if _, err := s.materialRepo.Create(ctx, tx, material); err != nil {
			return fmt.Errorf("create material: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.materialRepo.GetByID(ctx, nil, material.ID)
}

func (s *materialService) Get(ctx context.Context, id uuid.UUID) (*types.Material, error) {
	return s.materialRepo.GetByID(ctx, nil, id)
}

func (s *materialService) List(ctx context.Context, limit, offset int) ([]*types.Material, int64, error) {
	return s.materialRepo.List(ctx, nil, limit, offset)
}

func (s *materialService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}, rule *RewardRuleInput) (*types.Material, error) {
	if rule != nil {
		if err := validateRuleInput(rule); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		material, err := s.materialRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if rule != nil {
			ruleUpdates := map[string]interface{}{
				"unit":      rule.Unit,
				"point":     rule.Point,
				"unit_type": rule.UnitType,
			}
			if material.RewardRuleID != nil {
				if err := s.ruleRepo.Update(ctx, tx, *material.RewardRuleID, ruleUpdates); err != nil {
					return fmt.Errorf("update reward rule: %w", err)
				}
			} else {
				created, err := s.ruleRepo.Create(ctx, tx, &types.RewardRule{
					ID:       uuid.New(),
					Unit:     rule.Unit,
					Point:    rule.Point,
					UnitType: rule.UnitType,
				})
				if err != nil {
					return fmt.Errorf("create reward rule: %w", err)
				}
				if updates == nil {
					updates = map[string]interface{}{}
				}
				updates["reward_rule_id"] = created.ID
			}
		}
		if len(updates) > 0 {
			if err := s.materialRepo.Update(ctx, tx, id, updates); err != nil {
				return fmt.Errorf("update material: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.materialRepo.GetByID(ctx, nil, id)
}

func (s *materialService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.materialRepo.DeleteByID(ctx, nil, id)
}
