package types

import (
	"time"

	"github.com/google/uuid"
)

// UserTotalPoint is a materialized running sum of the user's earned points.
// Invariant: total_points == sum(recycle_history.points) for the user.
// It is maintained by transactional upsert-increment, never recomputed
// from scratch in the submission path.
type UserTotalPoint struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalPoints int64     `gorm:"not null;default:0;column:total_points" json:"total_points"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserTotalPoint) TableName() string { return "user_total_point" }
