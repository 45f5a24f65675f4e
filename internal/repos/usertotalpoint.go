package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type UserTotalPointRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserTotalPoint, error)
	// IncrementOrCreate adds points to the user's running total, creating
	// the row seeded with points if the user has never earned before. The
	// increment is a single upsert so concurrent submissions rely only on
	// the storage engine's row-level atomicity.
	IncrementOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int) error
	SumAll(ctx context.Context, tx *gorm.DB) (int64, error)
}

type userTotalPointRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTotalPointRepo(db *gorm.DB, baseLog *logger.Logger) UserTotalPointRepo {
	return &userTotalPointRepo{db: db, log: baseLog.With("repo", "UserTotalPointRepo")}
}

func (r *userTotalPointRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserTotalPoint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.UserTotalPoint
	if err := transaction.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userTotalPointRepo) IncrementOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, points int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now()
	row := &types.UserTotalPoint{
		ID:          uuid.New(),
		UserID:      userID,
		TotalPoints: int64(points),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_points": gorm.Expr("user_total_point.total_points + ?", points),
				"updated_at":   now,
			}),
		}).
		Create(row).Error
}

func (r *userTotalPointRepo) SumAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sum int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserTotalPoint{}).
		Select("COALESCE(SUM(total_points), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}
