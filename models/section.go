package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"jukusite.app/builder/sections"
)

// Section is one ordered, typed content block of a site page. Positions are
// unique per site; gaps are tolerated, relative order is what matters.
type Section struct {
	ID        uuid.UUID      `gorm:"primaryKey;type:uuid;not null;unique;default:gen_random_uuid()" json:"id"`
	SiteID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"site_id"`
	Kind      sections.Kind  `gorm:"size:50;not null" json:"kind"`
	Position  int            `gorm:"not null;check:position >= 0" json:"position"`
	Visible   *bool          `gorm:"not null;default:true" json:"visible"`
	Content   JSONB          `gorm:"type:jsonb;not null" json:"content"`
	CreatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	UpdatedAt time.Time      `gorm:"not null;default:clock_timestamp()" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// BeforeSave is the last line of the validation gate: content that does not
// conform to its kind's schema never reaches the store, no matter which
// code path attempts the write.
func (s *Section) BeforeSave(tx *gorm.DB) error {
	if !sections.IsValidKind(s.Kind) {
		return errors.New("unknown section kind")
	}

	fieldErrs, err := sections.Validate(s.Kind, json.RawMessage(s.Content))
	if err != nil {
		return err
	}

	if !fieldErrs.Empty() {
		return fieldErrs
	}

	return nil
}

func (s Section) GetID() uuid.UUID {
	return s.ID
}

func (s Section) GetCreatedAt() time.Time {
	return s.CreatedAt
}

func (s Section) IsVisible() bool {
	return s.Visible != nil && *s.Visible
}
