package types

import (
	"time"

	"github.com/google/uuid"
)

// RecycleHistory is an append-only fact record. Rows are created exactly
// once per accepted submission and never mutated afterwards, so the table
// doubles as an auditable points ledger.
type RecycleHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	BinID      uuid.UUID `gorm:"type:uuid;not null;index" json:"bin_id"`
	Bin        *Bin      `gorm:"foreignKey:BinID;references:ID" json:"bin,omitempty"`
	Points     int       `gorm:"not null;column:points" json:"points"`
	TotalCount int       `gorm:"not null;column:total_count" json:"total_count"`
	MediaURL   string    `gorm:"not null;column:media_url" json:"media_url"`
	RecycledAt time.Time `gorm:"not null;default:now();column:recycled_at" json:"recycled_at"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RecycleHistory) TableName() string { return "recycle_history" }
