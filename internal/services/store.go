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

type StoreService interface {
	Create(ctx context.Context, store *types.Store) (*types.Store, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Store, error)
	List(ctx context.Context, organizationID *uuid.UUID, limit, offset int) ([]*types.Store, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Store, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeService struct {
	db        *gorm.DB
	log       *logger.Logger
	storeRepo repos.StoreRepo
	orgRepo   repos.OrganizationRepo
}

func NewStoreService(db *gorm.DB, baseLog *logger.Logger, storeRepo repos.StoreRepo, orgRepo repos.OrganizationRepo) StoreService {
	return &storeService{
		db:        db,
		log:       baseLog.With("service", "StoreService"),
		storeRepo: storeRepo,
		orgRepo:   orgRepo,
	}
}

func (s *storeService) Create(ctx context.Context, store *types.Store) (*types.Store, error) {
	store.Name = strings.TrimSpace(store.Name)
	if store.Name == "" {
		return nil, fmt.Errorf("store name is required")
	}
	if _, err := s.orgRepo.GetByID(ctx, nil, store.OrganizationID); err != nil {
		return nil, fmt.Errorf("organization %s not found", store.OrganizationID)
	}
	store.ID = uuid.New()
	return s.storeRepo.Create(ctx, nil, store)
}

func (s *storeService) Get(ctx context.Context, id uuid.UUID) (*types.Store, error) {
	return s.storeRepo.GetByID(ctx, nil, id)
}

func (s *storeService) List(ctx context.Context, organizationID *uuid.UUID, limit, offset int) ([]*types.Store, int64, error) {
	return s.storeRepo.List(ctx, nil, organizationID, limit, offset)
}

func (s *storeService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Store, error) {
	if err := s.storeRepo.Update(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.storeRepo.GetByID(ctx, nil, id)
}

func (s *storeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.storeRepo.DeleteByID(ctx, nil, id)
}
