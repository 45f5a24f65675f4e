package types

import (
	"time"

	"github.com/google/uuid"
)

// RewardRule is a linear conversion from recycled quantity to points:
// every Unit of the material earns Point points. Unit must be > 0,
// enforced when rules are created or updated.
type RewardRule struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Unit      float64   `gorm:"not null;column:unit" json:"unit"`
	Point     int       `gorm:"not null;column:point" json:"point"`
	UnitType  string    `gorm:"not null;column:unit_type" json:"unit_type"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (RewardRule) TableName() string { return "reward_rule" }
