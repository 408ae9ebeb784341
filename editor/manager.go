package editor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const sessionTTL = 30 * time.Minute

type sessionKey struct {
	siteID  uuid.UUID
	ownerID uuid.UUID
}

// Invalidate drops externally cached render output for a site, keyed by
// slug. Sessions call it after every successful store write so a published
// site never keeps serving a section that was just deleted or hidden.
type Invalidate func(ctx context.Context, slug string)

// Manager hands out one Session per (site, owner) so all editor requests
// for a site flow through the same serialized state machine. Idle sessions
// expire; expiry discards uncommitted edits, which matches the
// navigate-away semantics of the editor.
type Manager struct {
	mu           sync.Mutex
	sessions     map[sessionKey]*Session
	siteStore    SiteStore
	sectionStore SectionStore
	invalidate   Invalidate
}

// NewManager wires the stores and the render-cache invalidation hook. A nil
// hook is allowed and skips invalidation.
func NewManager(siteStore SiteStore, sectionStore SectionStore, invalidate Invalidate) *Manager {
	return &Manager{
		sessions:     map[sessionKey]*Session{},
		siteStore:    siteStore,
		sectionStore: sectionStore,
		invalidate:   invalidate,
	}
}

// Session returns the live session for (site, owner), loading site and
// sections from the store when none exists. Ownership failures surface as
// ErrNotFound.
func (m *Manager) Session(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictStaleLocked()

	key := sessionKey{siteID: siteID, ownerID: ownerID}

	if sess, ok := m.sessions[key]; ok {
		return sess, nil
	}

	site, err := m.siteStore.Get(ctx, siteID, ownerID)
	if err != nil {
		return nil, err
	}

	secs, err := m.sectionStore.ListBySite(ctx, siteID, ownerID)
	if err != nil {
		return nil, err
	}

	sess := newSession(site, secs, m.siteStore, m.sectionStore, m.invalidate)
	m.sessions[key] = sess

	return sess, nil
}

// Close drops the session, discarding any uncommitted edits.
func (m *Manager) Close(siteID uuid.UUID, ownerID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionKey{siteID: siteID, ownerID: ownerID})
}

func (m *Manager) evictStaleLocked() {
	cutoff := time.Now().Add(-sessionTTL)

	for key, sess := range m.sessions {
		sess.mu.Lock()
		stale := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()

		if stale {
			delete(m.sessions, key)
		}
	}
}
