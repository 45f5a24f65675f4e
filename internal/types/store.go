package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Store struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization  `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
	Name           string         `gorm:"not null;column:name" json:"name"`
	Address        string         `gorm:"column:address" json:"address"`
	Location       datatypes.JSON `gorm:"column:location;type:jsonb" json:"location"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Store) TableName() string { return "store" }
