package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"jukusite.app/builder/models"
	"jukusite.app/builder/sections"
)

// Session is the per-(site, owner) editing state machine. It mirrors the
// committed section list, stages deferred content edits, and serializes
// immediate writes so rapid successive operations cannot race each other
// on the store.
//
// Immediate operations (reorder, add, delete, visibility, publish) persist
// at once and roll their optimistic local change back on store failure.
// Content and site-field edits stage into pending maps and only reach the
// store on Commit.
type Session struct {
	mu sync.Mutex

	siteID  uuid.UUID
	ownerID uuid.UUID

	site     models.Site
	sections []models.Section

	pendingSections map[uuid.UUID]models.JSONB
	pendingSite     SiteChanges

	siteStore    SiteStore
	sectionStore SectionStore
	invalidate   Invalidate

	lastUsed time.Time
}

func newSession(site models.Site, secs []models.Section, siteStore SiteStore, sectionStore SectionStore, invalidate Invalidate) *Session {
	sortSections(secs)

	return &Session{
		siteID:          site.ID,
		ownerID:         site.OwnerID,
		site:            site,
		sections:        secs,
		pendingSections: map[uuid.UUID]models.JSONB{},
		siteStore:       siteStore,
		sectionStore:    sectionStore,
		invalidate:      invalidate,
		lastUsed:        time.Now(),
	}
}

// invalidateLocked drops the site's cached rendered pages after a
// successful store write. Must be called with the session lock held.
func (s *Session) invalidateLocked(ctx context.Context) {
	if s.invalidate == nil {
		return
	}

	s.invalidate(ctx, s.site.Slug)
}

func sortSections(secs []models.Section) {
	sort.SliceStable(secs, func(i, j int) bool {
		return secs[i].Position < secs[j].Position
	})
}

func (s *Session) touch() {
	s.lastUsed = time.Now()
}

// Site returns the site with staged field edits layered on top, for live
// preview.
func (s *Session) Site() models.Site {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pendingSite.Apply(s.site)
}

// Sections returns the ordered list with staged content edits layered on
// top, for live preview. The committed mirror is never mutated by staging.
func (s *Session) Sections() []models.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Section, len(s.sections))
	copy(out, s.sections)

	for i := range out {
		if pending, ok := s.pendingSections[out[i].ID]; ok {
			out[i].Content = pending
		}
	}

	return out
}

// Dirty reports whether any pending map is non-empty.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirtyLocked()
}

func (s *Session) dirtyLocked() bool {
	return len(s.pendingSections) > 0 || !s.pendingSite.Empty()
}

func (s *Session) indexOf(sectionID uuid.UUID) int {
	for i := range s.sections {
		if s.sections[i].ID == sectionID {
			return i
		}
	}

	return -1
}

func (s *Session) maxPosition() int {
	max := 0

	for i := range s.sections {
		if s.sections[i].Position > max {
			max = s.sections[i].Position
		}
	}

	return max
}

// Reorder applies the given complete ID ordering locally and persists it
// immediately. The ordering must be a permutation of the current list.
func (s *Session) Reorder(ctx context.Context, ordered []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if len(ordered) != len(s.sections) {
		return fmt.Errorf("expected %d section ids, got %d", len(s.sections), len(ordered))
	}

	seen := map[uuid.UUID]bool{}
	positions := map[uuid.UUID]int{}

	for i, id := range ordered {
		if s.indexOf(id) < 0 {
			return fmt.Errorf("unknown section id '%s'", id)
		}

		if seen[id] {
			return fmt.Errorf("duplicated section id '%s'", id)
		}

		seen[id] = true
		positions[id] = i + 1
	}

	snapshot := make([]models.Section, len(s.sections))
	copy(snapshot, s.sections)

	for i := range s.sections {
		s.sections[i].Position = positions[s.sections[i].ID]
	}

	sortSections(s.sections)

	if err := s.sectionStore.UpdatePositions(ctx, s.siteID, s.ownerID, positions); err != nil {
		s.sections = snapshot
		return err
	}

	s.invalidateLocked(ctx)

	return nil
}

// AddSection creates a new instance with the kind's default content at the
// end of the list and persists it immediately.
func (s *Session) AddSection(ctx context.Context, kind sections.Kind) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !sections.IsValidKind(kind) {
		return models.Section{}, fmt.Errorf("unknown section kind '%s'", kind)
	}

	visible := true
	sec := models.Section{
		ID:       uuid.New(),
		SiteID:   s.siteID,
		Kind:     kind,
		Position: s.maxPosition() + 1,
		Visible:  &visible,
		Content:  models.JSONB(sections.DefaultRaw(kind)),
	}

	created, err := s.sectionStore.Create(ctx, s.siteID, s.ownerID, sec)
	if err != nil {
		return models.Section{}, err
	}

	s.sections = append(s.sections, created)
	s.invalidateLocked(ctx)

	return created, nil
}

// DeleteSection removes the instance from the list and the store
// immediately, and discards any staged edit for it so a deleted section's
// content cannot resurface on the next commit. Remaining positions are
// left untouched.
func (s *Session) DeleteSection(ctx context.Context, sectionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	idx := s.indexOf(sectionID)
	if idx < 0 {
		return ErrNotFound
	}

	if err := s.sectionStore.Delete(ctx, s.siteID, s.ownerID, sectionID); err != nil {
		return err
	}

	s.sections = append(s.sections[:idx], s.sections[idx+1:]...)
	delete(s.pendingSections, sectionID)
	s.invalidateLocked(ctx)

	return nil
}

// ToggleVisibility flips the flag and persists immediately, rolling the
// local flip back on store failure. Position and content are untouched.
func (s *Session) ToggleVisibility(ctx context.Context, sectionID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	idx := s.indexOf(sectionID)
	if idx < 0 {
		return false, ErrNotFound
	}

	visible := !s.sections[idx].IsVisible()
	s.sections[idx].Visible = &visible

	if err := s.sectionStore.SetVisibility(ctx, s.siteID, s.ownerID, sectionID, visible); err != nil {
		rollback := !visible
		s.sections[idx].Visible = &rollback

		return false, err
	}

	s.invalidateLocked(ctx)

	return visible, nil
}

// StageContent validates a content edit against the section's kind and, if
// clean, stages it into the pending map. Nothing reaches the store until
// Commit.
func (s *Session) StageContent(sectionID uuid.UUID, content json.RawMessage) (sections.FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	idx := s.indexOf(sectionID)
	if idx < 0 {
		return nil, ErrNotFound
	}

	fieldErrs, err := sections.Validate(s.sections[idx].Kind, content)
	if err != nil {
		return nil, err
	}

	if !fieldErrs.Empty() {
		return fieldErrs, nil
	}

	s.pendingSections[sectionID] = models.JSONB(content)

	return nil, nil
}

// StageSiteFields merges site-level field edits into the pending value.
func (s *Session) StageSiteFields(ch SiteChanges) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.pendingSite = s.pendingSite.merge(ch)
}

// CommitResult reports the outcome of a Save. Failed entries remain staged
// and retryable.
type CommitResult struct {
	SiteSaved       bool                 `json:"site_saved"`
	SiteError       string               `json:"site_error,omitempty"`
	SectionsSaved   []uuid.UUID          `json:"sections_saved"`
	SectionFailures map[uuid.UUID]string `json:"section_failures,omitempty"`
}

func (r CommitResult) OK() bool {
	return len(r.SiteError) < 1 && len(r.SectionFailures) == 0
}

// Commit writes the staged site fields as one update, then each staged
// section content as an independent update. Successful entries are cleared;
// failed entries stay pending so a retry saves exactly what is still dirty.
func (s *Session) Commit(ctx context.Context) CommitResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	result := CommitResult{
		SectionsSaved:   []uuid.UUID{},
		SectionFailures: map[uuid.UUID]string{},
	}

	if !s.pendingSite.Empty() {
		updated, err := s.siteStore.Update(ctx, s.siteID, s.ownerID, s.pendingSite)
		if err != nil {
			result.SiteError = err.Error()
		} else {
			s.site = updated
			s.pendingSite = SiteChanges{}
			result.SiteSaved = true
		}
	}

	// Commit staged sections in list order so failures report
	// deterministically.
	for i := range s.sections {
		id := s.sections[i].ID

		pending, ok := s.pendingSections[id]
		if !ok {
			continue
		}

		if err := s.sectionStore.UpdateContent(ctx, s.siteID, s.ownerID, id, pending); err != nil {
			result.SectionFailures[id] = err.Error()
			continue
		}

		s.sections[i].Content = pending
		delete(s.pendingSections, id)
		result.SectionsSaved = append(result.SectionsSaved, id)
	}

	if result.SiteSaved || len(result.SectionsSaved) > 0 {
		s.invalidateLocked(ctx)
	}

	return result
}

// TogglePublish flips the site's publish flag and persists immediately.
// It bypasses the pending state entirely; an unsaved draft stays staged.
func (s *Session) TogglePublish(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	published := !s.site.IsPublished()

	if err := s.siteStore.SetPublished(ctx, s.siteID, s.ownerID, published); err != nil {
		return s.site.IsPublished(), err
	}

	s.site.Published = &published
	s.invalidateLocked(ctx)

	return published, nil
}
