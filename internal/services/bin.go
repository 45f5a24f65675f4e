package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type BinService interface {
	Create(ctx context.Context, bin *types.Bin) (*types.Bin, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Bin, error)
	List(ctx context.Context, filter repos.BinFilter, limit, offset int) ([]*types.Bin, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Bin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type binService struct {
	db           *gorm.DB
	log          *logger.Logger
	binRepo      repos.BinRepo
	storeRepo    repos.StoreRepo
	materialRepo repos.MaterialRepo
}

func NewBinService(
	db *gorm.DB,
	baseLog *logger.Logger,
	binRepo repos.BinRepo,
	storeRepo repos.StoreRepo,
	materialRepo repos.MaterialRepo,
) BinService {
	return &binService{
		db:           db,
		log:          baseLog.With("service", "BinService"),
		binRepo:      binRepo,
		storeRepo:    storeRepo,
		materialRepo: materialRepo,
	}
}

func validBinStatus(status string) bool {
	switch status {
	case types.BinStatusActive, types.BinStatusInactive, types.BinStatusMaintenance:
		return true
	}
	return false
}

func (s *binService) Create(ctx context.Context, bin *types.Bin) (*types.Bin, error) {
	if _, err := s.storeRepo.GetByID(ctx, nil, bin.StoreID); err != nil {
		return nil, fmt.Errorf("store %s not found", bin.StoreID)
	}
	if _, err := s.materialRepo.GetByID(ctx, nil, bin.MaterialID); err != nil {
		return nil, fmt.Errorf("material %s not found", bin.MaterialID)
	}
	if bin.Status == "" {
		bin.Status = types.BinStatusActive
	}
	if !validBinStatus(bin.Status) {
		return nil, fmt.Errorf("invalid bin status %q", bin.Status)
	}
	bin.ID = uuid.New()
	return s.binRepo.Create(ctx, nil, bin)
}

func (s *binService) Get(ctx context.Context, id uuid.UUID) (*types.Bin, error) {
	return s.binRepo.GetWithContext(ctx, nil, id)
}

func (s *binService) List(ctx context.Context, filter repos.BinFilter, limit, offset int) ([]*types.Bin, int64, error) {
	return s.binRepo.List(ctx, nil, filter, limit, offset)
}

func (s *binService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Bin, error) {
	if status, ok := updates["status"].(string); ok && !validBinStatus(status) {
		return nil, fmt.Errorf("invalid bin status %q", status)
	}
	if err := s.binRepo.Update(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.binRepo.GetWithContext(ctx, nil, id)
}

func (s *binService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.binRepo.DeleteByID(ctx, nil, id)
}
