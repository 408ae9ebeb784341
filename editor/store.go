package editor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"jukusite.app/builder/models"
)

// ErrNotFound covers both missing rows and rows owned by someone else.
// Ownership failures never leak existence.
var ErrNotFound = errors.New("site not found")

// ErrConflict reports a slug or custom-domain uniqueness collision. It is
// user-facing and retryable.
var ErrConflict = errors.New("the value is already in use")

// SiteChanges carries staged site-level field edits. Nil fields are
// untouched; non-nil fields overwrite.
type SiteChanges struct {
	Name           *string `json:"name"`
	ThemeID        *string `json:"theme_id"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	FontID         *string `json:"font_id"`
	LogoURL        *string `json:"logo_url"`
	FaviconURL     *string `json:"favicon_url"`
	ContactPhone   *string `json:"contact_phone"`
	ContactEmail   *string `json:"contact_email"`
	Address        *string `json:"address"`
	OpeningHours   *string `json:"opening_hours"`
	LineURL        *string `json:"line_url"`
	InstagramURL   *string `json:"instagram_url"`
	TwitterURL     *string `json:"twitter_url"`
	YouTubeURL     *string `json:"youtube_url"`
	CustomDomain   *string `json:"custom_domain"`
}

func (ch SiteChanges) Empty() bool {
	return ch == SiteChanges{}
}

// merge layers later staged edits over earlier ones.
func (ch SiteChanges) merge(next SiteChanges) SiteChanges {
	out := ch

	for _, pair := range []struct {
		dst **string
		src *string
	}{
		{&out.Name, next.Name},
		{&out.ThemeID, next.ThemeID},
		{&out.PrimaryColor, next.PrimaryColor},
		{&out.SecondaryColor, next.SecondaryColor},
		{&out.FontID, next.FontID},
		{&out.LogoURL, next.LogoURL},
		{&out.FaviconURL, next.FaviconURL},
		{&out.ContactPhone, next.ContactPhone},
		{&out.ContactEmail, next.ContactEmail},
		{&out.Address, next.Address},
		{&out.OpeningHours, next.OpeningHours},
		{&out.LineURL, next.LineURL},
		{&out.InstagramURL, next.InstagramURL},
		{&out.TwitterURL, next.TwitterURL},
		{&out.YouTubeURL, next.YouTubeURL},
		{&out.CustomDomain, next.CustomDomain},
	} {
		if pair.src != nil {
			*pair.dst = pair.src
		}
	}

	return out
}

// Apply copies the staged values onto a site. Used for the live preview
// overlay and by the store on commit.
func (ch SiteChanges) Apply(site models.Site) models.Site {
	if ch.Name != nil {
		site.Name = *ch.Name
	}

	if ch.ThemeID != nil {
		site.ThemeID = *ch.ThemeID
	}

	if ch.PrimaryColor != nil {
		site.PrimaryColor = *ch.PrimaryColor
	}

	if ch.SecondaryColor != nil {
		site.SecondaryColor = *ch.SecondaryColor
	}

	if ch.FontID != nil {
		site.FontID = *ch.FontID
	}

	if ch.LogoURL != nil {
		site.LogoURL = ch.LogoURL
	}

	if ch.FaviconURL != nil {
		site.FaviconURL = ch.FaviconURL
	}

	if ch.ContactPhone != nil {
		site.ContactPhone = ch.ContactPhone
	}

	if ch.ContactEmail != nil {
		site.ContactEmail = ch.ContactEmail
	}

	if ch.Address != nil {
		site.Address = ch.Address
	}

	if ch.OpeningHours != nil {
		site.OpeningHours = ch.OpeningHours
	}

	if ch.LineURL != nil {
		site.LineURL = ch.LineURL
	}

	if ch.InstagramURL != nil {
		site.InstagramURL = ch.InstagramURL
	}

	if ch.TwitterURL != nil {
		site.TwitterURL = ch.TwitterURL
	}

	if ch.YouTubeURL != nil {
		site.YouTubeURL = ch.YouTubeURL
	}

	if ch.CustomDomain != nil {
		// Clearing must store NULL, not the empty string, or the unique
		// index rejects the second site that ever clears its domain.
		if len(*ch.CustomDomain) < 1 {
			site.CustomDomain = nil
		} else {
			site.CustomDomain = ch.CustomDomain
		}
	}

	return site
}

// SiteStore is the site-row boundary. Every call carries the requesting
// owner; rows owned by someone else answer as ErrNotFound.
type SiteStore interface {
	Get(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) (models.Site, error)
	Update(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, ch SiteChanges) (models.Site, error)
	SetPublished(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, published bool) error
}

// SectionStore is the section-row boundary, ownership-scoped like SiteStore.
type SectionStore interface {
	ListBySite(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) ([]models.Section, error)
	Create(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sec models.Section) (models.Section, error)
	UpdateContent(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID, content models.JSONB) error
	UpdatePositions(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, positions map[uuid.UUID]int) error
	SetVisibility(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID, visible bool) error
	Delete(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID) error
}
