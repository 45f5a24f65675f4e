package types

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name               string    `gorm:"not null;column:name" json:"name"`
	RegistrationNumber string    `gorm:"column:registration_number" json:"registration_number"`
	ContactEmail       string    `gorm:"column:contact_email" json:"contact_email"`
	ContactPhone       string    `gorm:"column:contact_phone" json:"contact_phone"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Organization) TableName() string { return "organization" }
