package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	List(ctx context.Context, limit, offset int) ([]*types.User, int64, error)
	GetTotalPoints(ctx context.Context, userID uuid.UUID) (int64, error)
}

type userService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	totalRepo repos.UserTotalPointRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, totalRepo repos.UserTotalPointRepo) UserService {
	return &userService{
		db:        db,
		log:       baseLog.With("service", "UserService"),
		userRepo:  userRepo,
		totalRepo: totalRepo,
	}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return s.userRepo.GetByID(ctx, nil, id)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*types.User, int64, error) {
	return s.userRepo.List(ctx, nil, limit, offset)
}

// GetTotalPoints returns the user's running total. A user who has never
// earned has no row; that reads as zero, not as an error.
func (s *userService) GetTotalPoints(ctx context.Context, userID uuid.UUID) (int64, error) {
	row, err := s.totalRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.TotalPoints, nil
}
