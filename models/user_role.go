package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole struct {
	ID          uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID      `gorm:"not null" json:"user_id"`
	User        User           `json:"user"`
	RoleID      uuid.UUID      `gorm:"not null" json:"role_id"`
	Role        Role           `json:"role"`
	CreatedByID uuid.UUID      `json:"created_by_id"`
	CreatedBy   *User          `gorm:"foreignKey:CreatedByID" json:"created_by"`
	UpdatedByID uuid.UUID      `json:"updated_by_id"`
	UpdatedBy   *User          `gorm:"foreignKey:UpdatedByID" json:"updated_by"`
	CreatedAt   time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt   time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ur UserRole) GetID() uuid.UUID {
	return ur.ID
}

func (ur UserRole) GetCreatedAt() time.Time {
	return ur.CreatedAt
}
