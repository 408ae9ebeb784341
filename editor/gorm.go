package editor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"jukusite.app/builder/models"
)

// GormStores implements both store boundaries over the application
// database. Every query is parameterized by (site, owner); rows that do
// not match the owner answer as ErrNotFound.
type GormStores struct {
	db *gorm.DB
}

func NewGormStores(db *gorm.DB) *GormStores {
	return &GormStores{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}

	return err
}

func (s *GormStores) ownedSite(siteID uuid.UUID, ownerID uuid.UUID) *gorm.DB {
	return s.db.Model(&models.Site{}).
		Where("id = @site_id AND owner_id = @owner_id", sql.Named("site_id", siteID), sql.Named("owner_id", ownerID))
}

func (s *GormStores) ownedSections(siteID uuid.UUID, ownerID uuid.UUID) *gorm.DB {
	return s.db.Model(&models.Section{}).
		Where(
			"site_id = @site_id AND site_id IN (SELECT id FROM sites WHERE id = @site_id AND owner_id = @owner_id AND deleted_at IS NULL)",
			sql.Named("site_id", siteID), sql.Named("owner_id", ownerID),
		)
}

func (s *GormStores) Get(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) (models.Site, error) {
	site := models.Site{}

	if err := s.ownedSite(siteID, ownerID).WithContext(ctx).First(&site).Error; err != nil {
		return models.Site{}, translate(err)
	}

	return site, nil
}

func (s *GormStores) Update(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, ch SiteChanges) (models.Site, error) {
	site, err := s.Get(ctx, siteID, ownerID)
	if err != nil {
		return models.Site{}, err
	}

	site = ch.Apply(site)
	site.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(&site).Error; err != nil {
		slog.Error(fmt.Sprintf("Could not update site '%s': %v", siteID, err))
		return models.Site{}, translate(err)
	}

	return site, nil
}

func (s *GormStores) SetPublished(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, published bool) error {
	result := s.ownedSite(siteID, ownerID).WithContext(ctx).
		UpdateColumns(map[string]interface{}{"published": published, "updated_at": time.Now()})
	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected < 1 {
		return ErrNotFound
	}

	return nil
}

func (s *GormStores) ListBySite(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) ([]models.Section, error) {
	secs := []models.Section{}

	if err := s.ownedSections(siteID, ownerID).WithContext(ctx).
		Order("position ASC").Find(&secs).Error; err != nil {
		return nil, translate(err)
	}

	return secs, nil
}

func (s *GormStores) Create(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sec models.Section) (models.Section, error) {
	// The ownership filter runs against the site row; Create itself has no
	// WHERE clause to scope.
	if _, err := s.Get(ctx, siteID, ownerID); err != nil {
		return models.Section{}, err
	}

	sec.SiteID = siteID

	if err := s.db.WithContext(ctx).Create(&sec).Error; err != nil {
		slog.Error(fmt.Sprintf("Could not create section for site '%s': %v", siteID, err))
		return models.Section{}, translate(err)
	}

	return sec, nil
}

func (s *GormStores) UpdateContent(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID, content models.JSONB) error {
	sec := models.Section{}

	if err := s.ownedSections(siteID, ownerID).WithContext(ctx).
		Where("id = @id", sql.Named("id", sectionID)).First(&sec).Error; err != nil {
		return translate(err)
	}

	sec.Content = content
	sec.UpdatedAt = time.Now()

	// Save runs the model's BeforeSave hook, so the schema gate applies
	// here as well.
	if err := s.db.WithContext(ctx).Save(&sec).Error; err != nil {
		return translate(err)
	}

	return nil
}

func (s *GormStores) UpdatePositions(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, positions map[uuid.UUID]int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, pos := range positions {
			result := tx.Model(&models.Section{}).
				Where(
					"id = @id AND site_id = @site_id AND site_id IN (SELECT id FROM sites WHERE id = @site_id AND owner_id = @owner_id AND deleted_at IS NULL)",
					sql.Named("id", id), sql.Named("site_id", siteID), sql.Named("owner_id", ownerID),
				).
				UpdateColumns(map[string]interface{}{"position": pos, "updated_at": time.Now()})
			if result.Error != nil {
				return translate(result.Error)
			}

			if result.RowsAffected < 1 {
				return ErrNotFound
			}
		}

		return nil
	})
}

func (s *GormStores) SetVisibility(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID, visible bool) error {
	result := s.ownedSections(siteID, ownerID).WithContext(ctx).
		Where("id = @id", sql.Named("id", sectionID)).
		UpdateColumns(map[string]interface{}{"visible": visible, "updated_at": time.Now()})
	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected < 1 {
		return ErrNotFound
	}

	return nil
}

func (s *GormStores) Delete(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID) error {
	result := s.ownedSections(siteID, ownerID).WithContext(ctx).
		Where("id = @id", sql.Named("id", sectionID)).
		Delete(&models.Section{})
	if result.Error != nil {
		return translate(result.Error)
	}

	if result.RowsAffected < 1 {
		return ErrNotFound
	}

	return nil
}
