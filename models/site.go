package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Site struct {
	ID             uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	OwnerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner          User           `gorm:"foreignKey:OwnerID" json:"-"`
	Name           string         `gorm:"size:120;not null" json:"name"`
	Slug           string         `gorm:"size:100;not null;unique" json:"slug"`
	CustomDomain   *string        `gorm:"size:255;unique" json:"custom_domain"`
	ThemeID        string         `gorm:"size:50;not null" json:"theme_id"`
	PrimaryColor   string         `gorm:"size:20;not null" json:"primary_color"`
	SecondaryColor string         `gorm:"size:20;not null" json:"secondary_color"`
	FontID         string         `gorm:"size:50" json:"font_id"`
	LogoURL        *string        `gorm:"type:text" json:"logo_url"`
	FaviconURL     *string        `gorm:"type:text" json:"favicon_url"`
	ContactPhone   *string        `gorm:"size:50" json:"contact_phone"`
	ContactEmail   *string        `gorm:"size:100" json:"contact_email"`
	Address        *string        `gorm:"size:255" json:"address"`
	OpeningHours   *string        `gorm:"size:255" json:"opening_hours"`
	LineURL        *string        `gorm:"type:text" json:"line_url"`
	InstagramURL   *string        `gorm:"type:text" json:"instagram_url"`
	TwitterURL     *string        `gorm:"type:text" json:"twitter_url"`
	YouTubeURL     *string        `gorm:"type:text" json:"youtube_url"`
	Published      *bool          `gorm:"not null;default:false" json:"published"`
	CreatedAt      time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt      time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (s Site) GetID() uuid.UUID {
	return s.ID
}

func (s Site) GetCreatedAt() time.Time {
	return s.CreatedAt
}

func (s Site) IsPublished() bool {
	return s.Published != nil && *s.Published
}
