package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Coupon struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title     string         `gorm:"not null;column:title" json:"title"`
	PointCost int            `gorm:"not null;column:point_cost" json:"point_cost"`
	Stock     int            `gorm:"not null;default:0;column:stock" json:"stock"`
	ValidFrom time.Time      `gorm:"column:valid_from" json:"valid_from"`
	ValidTo   time.Time      `gorm:"column:valid_to" json:"valid_to"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Coupon) TableName() string { return "coupon" }
