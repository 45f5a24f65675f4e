package types

import (
	"time"

	"github.com/google/uuid"
)

type Material struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string      `gorm:"uniqueIndex;not null;column:name" json:"name"`
	RewardRuleID *uuid.UUID  `gorm:"type:uuid;column:reward_rule_id" json:"reward_rule_id,omitempty"`
	RewardRule   *RewardRule `gorm:"foreignKey:RewardRuleID;references:ID" json:"reward_rule,omitempty"`
	CreatedAt    time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Material) TableName() string { return "material" }
