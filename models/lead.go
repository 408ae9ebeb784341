package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead is a contact-form submission captured on a public site.
type Lead struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	SiteID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"site_id"`
	Name      string         `gorm:"size:120;not null" json:"name"`
	Email     string         `gorm:"size:100;not null" json:"email"`
	Phone     *string        `gorm:"size:50" json:"phone"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (l Lead) GetID() uuid.UUID {
	return l.ID
}

func (l Lead) GetCreatedAt() time.Time {
	return l.CreatedAt
}
