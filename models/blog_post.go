package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"jukusite.app/builder/blocks"
)

// BlogPost owns a single ordered sequence of typed content blocks. The slug
// is unique within its site, not globally.
type BlogPost struct {
	ID               uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	SiteID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_blog_posts_site_slug" json:"site_id"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	Slug             string         `gorm:"size:120;not null;uniqueIndex:idx_blog_posts_site_slug" json:"slug"`
	Blocks           JSONB          `gorm:"type:jsonb;not null" json:"blocks"`
	FeaturedImageURL *string        `gorm:"type:text" json:"featured_image_url"`
	Published        *bool          `gorm:"not null;default:false" json:"published"`
	PublishedAt      *time.Time     `json:"published_at"`
	CreatedAt        time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt        time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (p *BlogPost) BeforeSave(tx *gorm.DB) error {
	list, err := p.BlockList()
	if err != nil {
		return err
	}

	if fieldErrs := blocks.ValidateAll(list); !fieldErrs.Empty() {
		return fieldErrs
	}

	return nil
}

func (p BlogPost) BlockList() ([]blocks.Block, error) {
	list := []blocks.Block{}

	if len(p.Blocks) < 1 {
		return list, nil
	}

	if err := json.Unmarshal(p.Blocks, &list); err != nil {
		return nil, err
	}

	return list, nil
}

func (p BlogPost) GetID() uuid.UUID {
	return p.ID
}

func (p BlogPost) GetCreatedAt() time.Time {
	return p.CreatedAt
}

// IsPublished requires both the flag and the timestamp; only then is the
// post visible to the public renderer.
func (p BlogPost) IsPublished() bool {
	return p.Published != nil && *p.Published && p.PublishedAt != nil
}
