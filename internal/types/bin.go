package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	BinStatusActive      = "active"
	BinStatusInactive    = "inactive"
	BinStatusMaintenance = "maintenance"
)

type Bin struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Label      string    `gorm:"column:label" json:"label"`
	Status     string    `gorm:"not null;default:'active';column:status" json:"status"`
	MaterialID uuid.UUID `gorm:"type:uuid;not null;index" json:"material_id"`
	Material   *Material `gorm:"foreignKey:MaterialID;references:ID" json:"material,omitempty"`
	StoreID    uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	Store      *Store    `gorm:"foreignKey:StoreID;references:ID" json:"store,omitempty"`
	CapacityL  int       `gorm:"column:capacity_l" json:"capacity_l"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Bin) TableName() string { return "bin" }
