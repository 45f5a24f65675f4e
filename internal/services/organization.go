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

type OrganizationService interface {
	Create(ctx context.Context, org *types.Organization) (*types.Organization, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Organization, error)
	List(ctx context.Context, limit, offset int) ([]*types.Organization, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type organizationService struct {
	db      *gorm.DB
	log     *logger.Logger
	orgRepo repos.OrganizationRepo
}

func NewOrganizationService(db *gorm.DB, baseLog *logger.Logger, orgRepo repos.OrganizationRepo) OrganizationService {
	return &organizationService{
		db:      db,
		log:     baseLog.With("service", "OrganizationService"),
		orgRepo: orgRepo,
	}
}

func (s *organizationService) Create(ctx context.Context, org *types.Organization) (*types.Organization, error) {
	org.Name = strings.TrimSpace(org.Name)
	if org.Name == "" {
		return nil, fmt.Errorf("organization name is required")
	}
	org.ID = uuid.New()
	return s.orgRepo.Create(ctx, nil, org)
}

func (s *organizationService) Get(ctx context.Context, id uuid.UUID) (*types.Organization, error) {
	return s.orgRepo.GetByID(ctx, nil, id)
}

func (s *organizationService) List(ctx context.Context, limit, offset int) ([]*types.Organization, int64, error) {
	return s.orgRepo.List(ctx, nil, limit, offset)
}

func (s *organizationService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Organization, error) {
	if err := s.orgRepo.Update(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.orgRepo.GetByID(ctx, nil, id)
}

func (s *organizationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orgRepo.DeleteByID(ctx, nil, id)
}
