package editor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jukusite.app/builder/models"
	"jukusite.app/builder/sections"
)

var errStoreDown = errors.New("store unavailable")

// fakeStores is an in-memory SiteStore and SectionStore with per-operation
// failure switches, so immediate-write rollback and partial commits can be
// exercised without a database.
type fakeStores struct {
	mu sync.Mutex

	site     models.Site
	sections map[uuid.UUID]models.Section

	failSiteUpdate    bool
	failPositions     bool
	failVisibility    bool
	failDelete        bool
	failContent       map[uuid.UUID]bool
	contentWrites     int
	lastPublishedFlag *bool
	invalidations     []string
}

func (f *fakeStores) recordInvalidation(ctx context.Context, slug string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invalidations = append(f.invalidations, slug)
}

func (f *fakeStores) invalidationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.invalidations)
}

func newFakeStores(site models.Site, secs []models.Section) *fakeStores {
	f := &fakeStores{
		site:        site,
		sections:    map[uuid.UUID]models.Section{},
		failContent: map[uuid.UUID]bool{},
	}

	for _, sec := range secs {
		f.sections[sec.ID] = sec
	}

	return f
}

func (f *fakeStores) owned(siteID uuid.UUID, ownerID uuid.UUID) bool {
	return f.site.ID == siteID && f.site.OwnerID == ownerID
}

func (f *fakeStores) Get(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) (models.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return models.Site{}, ErrNotFound
	}

	return f.site, nil
}

func (f *fakeStores) Update(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, ch SiteChanges) (models.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return models.Site{}, ErrNotFound
	}

	if f.failSiteUpdate {
		return models.Site{}, errStoreDown
	}

	f.site = ch.Apply(f.site)

	return f.site, nil
}

func (f *fakeStores) SetPublished(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, published bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return ErrNotFound
	}

	f.site.Published = &published
	f.lastPublishedFlag = &published

	return nil
}

func (f *fakeStores) ListBySite(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) ([]models.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return nil, ErrNotFound
	}

	out := []models.Section{}
	for _, sec := range f.sections {
		out = append(out, sec)
	}

	return out, nil
}

func (f *fakeStores) Create(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sec models.Section) (models.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return models.Section{}, ErrNotFound
	}

	f.sections[sec.ID] = sec

	return sec, nil
}

func (f *fakeStores) UpdateContent(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID, content models.JSONB) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return ErrNotFound
	}

	if f.failContent[sectionID] {
		return errStoreDown
	}

	sec, ok := f.sections[sectionID]
	if !ok {
		return ErrNotFound
	}

	sec.Content = content
	f.sections[sectionID] = sec
	f.contentWrites++

	return nil
}

func (f *fakeStores) UpdatePositions(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, positions map[uuid.UUID]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return ErrNotFound
	}

	if f.failPositions {
		return errStoreDown
	}

	for id, pos := range positions {
		sec, ok := f.sections[id]
		if !ok {
			return ErrNotFound
		}

		sec.Position = pos
		f.sections[id] = sec
	}

	return nil
}

func (f *fakeStores) SetVisibility(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID, visible bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return ErrNotFound
	}

	if f.failVisibility {
		return errStoreDown
	}

	sec, ok := f.sections[sectionID]
	if !ok {
		return ErrNotFound
	}

	sec.Visible = &visible
	f.sections[sectionID] = sec

	return nil
}

func (f *fakeStores) Delete(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, sectionID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.owned(siteID, ownerID) {
		return ErrNotFound
	}

	if f.failDelete {
		return errStoreDown
	}

	if _, ok := f.sections[sectionID]; !ok {
		return ErrNotFound
	}

	delete(f.sections, sectionID)

	return nil
}

func testSection(siteID uuid.UUID, kind sections.Kind, position int) models.Section {
	visible := true

	return models.Section{
		ID:       uuid.New(),
		SiteID:   siteID,
		Kind:     kind,
		Position: position,
		Visible:  &visible,
		Content:  models.JSONB(sections.DefaultRaw(kind)),
	}
}

func testSite() models.Site {
	published := false

	return models.Site{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Name:           "Sakura Juku",
		Slug:           "sakura-juku",
		ThemeID:        "modern",
		PrimaryColor:   "#2563eb",
		SecondaryColor: "#f59e0b",
		Published:      &published,
	}
}

func setup(t *testing.T) (*Manager, *fakeStores, *Session, models.Site) {
	t.Helper()

	site := testSite()
	secs := []models.Section{
		testSection(site.ID, sections.KindHero, 1),
		testSection(site.ID, sections.KindFeatures, 2),
		testSection(site.ID, sections.KindContact, 3),
	}

	stores := newFakeStores(site, secs)
	mgr := NewManager(stores, stores, stores.recordInvalidation)

	sess, err := mgr.Session(context.Background(), site.ID, site.OwnerID)
	require.NoError(t, err)

	return mgr, stores, sess, site
}

func TestManagerReturnsSameSession(t *testing.T) {
	mgr, _, sess, site := setup(t)

	again, err := mgr.Session(context.Background(), site.ID, site.OwnerID)
	require.NoError(t, err)
	assert.Same(t, sess, again)
}

func TestManagerOwnershipFailureIsNotFound(t *testing.T) {
	mgr, _, _, site := setup(t)

	_, err := mgr.Session(context.Background(), site.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerCloseDiscardsStagedEdits(t *testing.T) {
	mgr, _, sess, site := setup(t)

	name := "Renamed"
	sess.StageSiteFields(SiteChanges{Name: &name})
	require.True(t, sess.Dirty())

	mgr.Close(site.ID, site.OwnerID)

	fresh, err := mgr.Session(context.Background(), site.ID, site.OwnerID)
	require.NoError(t, err)
	assert.NotSame(t, sess, fresh)
	assert.False(t, fresh.Dirty())
	assert.Equal(t, "Sakura Juku", fresh.Site().Name)
}

func TestSectionsAreOrderedByPosition(t *testing.T) {
	_, _, sess, _ := setup(t)

	secs := sess.Sections()
	require.Len(t, secs, 3)
	assert.Equal(t, sections.KindHero, secs[0].Kind)
	assert.Equal(t, sections.KindFeatures, secs[1].Kind)
	assert.Equal(t, sections.KindContact, secs[2].Kind)
}

func TestAddSectionAppendsAtEnd(t *testing.T) {
	_, stores, sess, _ := setup(t)

	sec, err := sess.AddSection(context.Background(), sections.KindGallery)
	require.NoError(t, err)
	assert.Equal(t, 4, sec.Position)
	assert.True(t, sec.IsVisible())

	// Immediate write, no staging involved.
	assert.False(t, sess.Dirty())
	assert.Contains(t, stores.sections, sec.ID)

	fieldErrs, err := sections.Validate(sec.Kind, json.RawMessage(sec.Content))
	require.NoError(t, err)
	assert.True(t, fieldErrs.Empty())
}

func TestAddSectionRejectsUnknownKind(t *testing.T) {
	_, _, sess, _ := setup(t)

	_, err := sess.AddSection(context.Background(), sections.Kind("carousel"))
	assert.Error(t, err)
}

func TestAddThenDeleteLeavesNoTrace(t *testing.T) {
	_, stores, sess, _ := setup(t)

	sec, err := sess.AddSection(context.Background(), sections.KindGallery)
	require.NoError(t, err)

	// Stage an edit, then delete: nothing of the section may survive.
	staged, err := sess.StageContent(sec.ID, json.RawMessage(`{"title":"Photos"}`))
	require.NoError(t, err)
	require.True(t, staged.Empty())

	require.NoError(t, sess.DeleteSection(context.Background(), sec.ID))

	assert.NotContains(t, stores.sections, sec.ID)
	assert.False(t, sess.Dirty())
	assert.Len(t, sess.Sections(), 3)

	// A later save must not resurrect the deleted section's content.
	result := sess.Commit(context.Background())
	assert.True(t, result.OK())
	assert.Empty(t, result.SectionsSaved)
}

func TestDeleteSectionPreservesRemainingPositions(t *testing.T) {
	_, _, sess, _ := setup(t)

	secs := sess.Sections()
	require.NoError(t, sess.DeleteSection(context.Background(), secs[1].ID))

	remaining := sess.Sections()
	require.Len(t, remaining, 2)
	assert.Equal(t, 1, remaining[0].Position)
	assert.Equal(t, 3, remaining[1].Position)
}

func TestDeleteUnknownSection(t *testing.T) {
	_, _, sess, _ := setup(t)

	err := sess.DeleteSection(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorder(t *testing.T) {
	_, stores, sess, _ := setup(t)

	secs := sess.Sections()
	require.NoError(t, sess.Reorder(context.Background(), []uuid.UUID{secs[2].ID, secs[0].ID, secs[1].ID}))

	reordered := sess.Sections()
	assert.Equal(t, secs[2].ID, reordered[0].ID)
	assert.Equal(t, 1, reordered[0].Position)
	assert.Equal(t, secs[0].ID, reordered[1].ID)
	assert.Equal(t, secs[1].ID, reordered[2].ID)

	assert.Equal(t, 1, stores.sections[secs[2].ID].Position)
	assert.Equal(t, 3, stores.sections[secs[1].ID].Position)
}

func TestReorderRejectsBadPermutations(t *testing.T) {
	_, _, sess, _ := setup(t)
	secs := sess.Sections()

	// Too short.
	assert.Error(t, sess.Reorder(context.Background(), []uuid.UUID{secs[0].ID}))

	// Duplicate entry.
	assert.Error(t, sess.Reorder(context.Background(), []uuid.UUID{secs[0].ID, secs[0].ID, secs[1].ID}))

	// Unknown entry.
	assert.Error(t, sess.Reorder(context.Background(), []uuid.UUID{secs[0].ID, secs[1].ID, uuid.New()}))

	// The local order is untouched after rejected attempts.
	after := sess.Sections()
	for i := range secs {
		assert.Equal(t, secs[i].ID, after[i].ID)
	}
}

func TestReorderRollsBackOnStoreFailure(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	stores.failPositions = true

	err := sess.Reorder(context.Background(), []uuid.UUID{secs[2].ID, secs[1].ID, secs[0].ID})
	require.Error(t, err)

	after := sess.Sections()
	for i := range secs {
		assert.Equal(t, secs[i].ID, after[i].ID)
		assert.Equal(t, secs[i].Position, after[i].Position)
	}
}

func TestToggleVisibility(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	visible, err := sess.ToggleVisibility(context.Background(), secs[0].ID)
	require.NoError(t, err)
	assert.False(t, visible)
	assert.False(t, stores.sections[secs[0].ID].IsVisible())

	visible, err = sess.ToggleVisibility(context.Background(), secs[0].ID)
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestToggleVisibilityRollsBackOnStoreFailure(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	stores.failVisibility = true

	_, err := sess.ToggleVisibility(context.Background(), secs[0].ID)
	require.Error(t, err)
	assert.True(t, sess.Sections()[0].IsVisible())
}

func TestStageContentValidGoesPendingOnly(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	raw := json.RawMessage(`{"title":"Welcome to Sakura Juku"}`)
	fieldErrs, err := sess.StageContent(secs[0].ID, raw)
	require.NoError(t, err)
	assert.True(t, fieldErrs.Empty())
	assert.True(t, sess.Dirty())

	// The preview shows the staged content, the store still has the old one.
	assert.JSONEq(t, string(raw), string(sess.Sections()[0].Content))
	assert.Equal(t, 0, stores.contentWrites)
	assert.NotEqual(t, string(raw), string(stores.sections[secs[0].ID].Content))
}

func TestStageContentInvalidIsRejected(t *testing.T) {
	_, _, sess, _ := setup(t)
	secs := sess.Sections()

	// Hero requires a title.
	fieldErrs, err := sess.StageContent(secs[0].ID, json.RawMessage(`{"subtitle":"no title"}`))
	require.NoError(t, err)
	require.False(t, fieldErrs.Empty())
	assert.Equal(t, "title", fieldErrs[0].Field)

	// Rejected edits never become pending.
	assert.False(t, sess.Dirty())
}

func TestStageContentUnknownSection(t *testing.T) {
	_, _, sess, _ := setup(t)

	_, err := sess.StageContent(uuid.New(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommitWritesStagedEdits(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	name := "Renamed Juku"
	sess.StageSiteFields(SiteChanges{Name: &name})

	raw := json.RawMessage(`{"title":"New hero title"}`)
	_, err := sess.StageContent(secs[0].ID, raw)
	require.NoError(t, err)

	result := sess.Commit(context.Background())
	assert.True(t, result.OK())
	assert.True(t, result.SiteSaved)
	assert.Equal(t, []uuid.UUID{secs[0].ID}, result.SectionsSaved)
	assert.False(t, sess.Dirty())

	assert.Equal(t, "Renamed Juku", stores.site.Name)
	assert.JSONEq(t, string(raw), string(stores.sections[secs[0].ID].Content))
}

func TestCommitWithoutSiteChangesSkipsSiteWrite(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	_, err := sess.StageContent(secs[1].ID, json.RawMessage(`{"title":"Why us"}`))
	require.NoError(t, err)

	result := sess.Commit(context.Background())
	assert.True(t, result.OK())
	assert.False(t, result.SiteSaved)
	assert.Equal(t, 1, stores.contentWrites)
}

func TestCommitPartialFailureKeepsFailedPending(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	_, err := sess.StageContent(secs[0].ID, json.RawMessage(`{"title":"Saved"}`))
	require.NoError(t, err)
	_, err = sess.StageContent(secs[1].ID, json.RawMessage(`{"title":"Fails"}`))
	require.NoError(t, err)

	stores.failContent[secs[1].ID] = true

	result := sess.Commit(context.Background())
	assert.False(t, result.OK())
	assert.Equal(t, []uuid.UUID{secs[0].ID}, result.SectionsSaved)
	assert.Contains(t, result.SectionFailures, secs[1].ID)

	// The failed edit is still staged; a retry saves exactly it.
	assert.True(t, sess.Dirty())

	stores.failContent[secs[1].ID] = false
	retry := sess.Commit(context.Background())
	assert.True(t, retry.OK())
	assert.Equal(t, []uuid.UUID{secs[1].ID}, retry.SectionsSaved)
	assert.False(t, sess.Dirty())
}

func TestCommitSiteFailureKeepsFieldsPending(t *testing.T) {
	_, stores, sess, _ := setup(t)

	name := "Renamed"
	sess.StageSiteFields(SiteChanges{Name: &name})
	stores.failSiteUpdate = true

	result := sess.Commit(context.Background())
	assert.False(t, result.OK())
	assert.NotEmpty(t, result.SiteError)
	assert.True(t, sess.Dirty())
	assert.Equal(t, "Sakura Juku", stores.site.Name)

	stores.failSiteUpdate = false
	retry := sess.Commit(context.Background())
	assert.True(t, retry.OK())
	assert.Equal(t, "Renamed", stores.site.Name)
}

func TestStageSiteFieldsMerge(t *testing.T) {
	_, _, sess, _ := setup(t)

	first := "First"
	phone := "03-1234-5678"
	sess.StageSiteFields(SiteChanges{Name: &first})
	sess.StageSiteFields(SiteChanges{ContactPhone: &phone})

	second := "Second"
	sess.StageSiteFields(SiteChanges{Name: &second})

	preview := sess.Site()
	assert.Equal(t, "Second", preview.Name)
	require.NotNil(t, preview.ContactPhone)
	assert.Equal(t, phone, *preview.ContactPhone)
}

func TestImmediateWritesDropRenderedPages(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	_, err := sess.ToggleVisibility(context.Background(), secs[0].ID)
	require.NoError(t, err)
	require.Equal(t, 1, stores.invalidationCount())
	assert.Equal(t, "sakura-juku", stores.invalidations[0])

	require.NoError(t, sess.Reorder(context.Background(), []uuid.UUID{secs[2].ID, secs[0].ID, secs[1].ID}))
	assert.Equal(t, 2, stores.invalidationCount())

	sec, err := sess.AddSection(context.Background(), sections.KindGallery)
	require.NoError(t, err)
	assert.Equal(t, 3, stores.invalidationCount())

	require.NoError(t, sess.DeleteSection(context.Background(), sec.ID))
	assert.Equal(t, 4, stores.invalidationCount())
}

func TestFailedWritesKeepRenderedPages(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	stores.failVisibility = true
	_, err := sess.ToggleVisibility(context.Background(), secs[0].ID)
	require.Error(t, err)

	stores.failPositions = true
	require.Error(t, sess.Reorder(context.Background(), []uuid.UUID{secs[2].ID, secs[1].ID, secs[0].ID}))

	assert.Equal(t, 0, stores.invalidationCount())
}

func TestStagingKeepsRenderedPages(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	_, err := sess.StageContent(secs[0].ID, json.RawMessage(`{"title":"Staged"}`))
	require.NoError(t, err)

	name := "Staged name"
	sess.StageSiteFields(SiteChanges{Name: &name})

	assert.Equal(t, 0, stores.invalidationCount())
}

func TestCommitDropsRenderedPagesOnce(t *testing.T) {
	_, stores, sess, _ := setup(t)
	secs := sess.Sections()

	name := "Renamed"
	sess.StageSiteFields(SiteChanges{Name: &name})
	_, err := sess.StageContent(secs[0].ID, json.RawMessage(`{"title":"One"}`))
	require.NoError(t, err)
	_, err = sess.StageContent(secs[1].ID, json.RawMessage(`{"title":"Two"}`))
	require.NoError(t, err)

	result := sess.Commit(context.Background())
	require.True(t, result.OK())
	assert.Equal(t, 1, stores.invalidationCount())

	// A clean commit writes nothing and keeps the cache.
	sess.Commit(context.Background())
	assert.Equal(t, 1, stores.invalidationCount())
}

func TestTogglePublishDropsRenderedPages(t *testing.T) {
	_, stores, sess, _ := setup(t)

	_, err := sess.TogglePublish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stores.invalidationCount())
}

func TestCommitClearsCustomDomain(t *testing.T) {
	_, stores, sess, _ := setup(t)

	domain := "juku.example.com"
	sess.StageSiteFields(SiteChanges{CustomDomain: &domain})
	require.True(t, sess.Commit(context.Background()).OK())
	require.NotNil(t, stores.site.CustomDomain)
	assert.Equal(t, domain, *stores.site.CustomDomain)

	empty := ""
	sess.StageSiteFields(SiteChanges{CustomDomain: &empty})
	require.True(t, sess.Commit(context.Background()).OK())
	assert.Nil(t, stores.site.CustomDomain)
}

func TestTogglePublishBypassesPending(t *testing.T) {
	_, stores, sess, _ := setup(t)

	name := "Draft name"
	sess.StageSiteFields(SiteChanges{Name: &name})

	published, err := sess.TogglePublish(context.Background())
	require.NoError(t, err)
	assert.True(t, published)
	require.NotNil(t, stores.lastPublishedFlag)
	assert.True(t, *stores.lastPublishedFlag)

	// The staged name is still only staged.
	assert.True(t, sess.Dirty())
	assert.Equal(t, "Sakura Juku", stores.site.Name)

	published, err = sess.TogglePublish(context.Background())
	require.NoError(t, err)
	assert.False(t, published)
}
