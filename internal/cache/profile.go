// Package cache implements the on-device cache-aside stores for the profile
// and the medical-record list. The remote API stays authoritative: caches
// are populated only by confirmed server responses, degrade to stale reads
// when the server is unreachable, and are purged outright on authorization
// failures so a revoked session can never serve another account's data.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/amanihealth/amani/internal/localstore"
	"github.com/amanihealth/amani/pkg/healthsdk"
)

// ProfileAPI is the slice of the remote session the profile cache consumes.
// Satisfied by *healthsdk.Session.
type ProfileAPI interface {
	UserID() string
	GetCurrentUser(ctx context.Context) (healthsdk.UserProfile, error)
	UpdateProfile(ctx context.Context, patch healthsdk.ProfilePatch) (healthsdk.UserProfile, error)
}

// ProfileCache is a cache-aside store for the authenticated user's profile,
// persisted in the general local store so stale reads survive a restart.
type ProfileCache struct {
	api   ProfileAPI
	store localstore.Store

	mu     sync.Mutex
	entry  *Entry[healthsdk.UserProfile]
	loaded bool

	// Fetch generations: a response is applied only if no later fetch or
	// confirmed write has been applied since it was issued.
	gen     uint64
	applied uint64

	now func() time.Time
}

func NewProfileCache(api ProfileAPI, store localstore.Store) *ProfileCache {
	return &ProfileCache{
		api:   api,
		store: store,
		now:   time.Now,
	}
}

// Get fetches the profile from the server, falling back to the cached entry
// when the server is unreachable.
//
//   - success: the entry is overwritten, marked fresh, and returned
//   - authorization failure: the cache is purged and the error returned; a
//     revoked session must never serve stale profile data
//   - network unavailable: the cached entry is returned marked stale, or the
//     error when there is no cache to fall back to
//   - anything else: the cache is left untouched and the error returned
func (c *ProfileCache) Get(ctx context.Context) (*Entry[healthsdk.UserProfile], error) {
	c.mu.Lock()
	c.ensureLoaded(ctx)
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	profile, err := c.api.GetCurrentUser(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen < c.applied {
		// A later fetch or a confirmed write finished first; this response
		// is superseded and must not overwrite the newer state.
		return c.snapshot(), nil
	}

	switch {
	case err == nil:
		c.applied = gen
		c.entry = &Entry[healthsdk.UserProfile]{
			Value:     profile,
			Source:    SourceFresh,
			FetchedAt: c.now(),
			OwnerID:   c.api.UserID(),
		}
		c.persist(ctx)
		return c.snapshot(), nil

	case healthsdk.IsAuthorization(err):
		c.applied = gen
		c.purge(ctx)
		return nil, err

	case healthsdk.IsNetworkUnavailable(err):
		c.applied = gen
		if c.entry != nil {
			c.entry = ptr(c.entry.Stale())
			c.persist(ctx)
			return c.snapshot(), nil
		}
		return nil, err

	default:
		// Unexpected server failure: keep whatever we had, surface the error.
		c.applied = gen
		return nil, err
	}
}

// Update sends the partial update to the server first; only a confirmed
// response touches the local entry, so the UI never shows an edit the
// server rejected. All errors propagate.
func (c *ProfileCache) Update(ctx context.Context, patch healthsdk.ProfilePatch) (*Entry[healthsdk.UserProfile], error) {
	updated, err := c.api.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("profile update rejected: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// A confirmed write outranks any fetch still in flight.
	c.gen++
	c.applied = c.gen

	c.entry = &Entry[healthsdk.UserProfile]{
		Value:     updated,
		Source:    SourceFresh,
		FetchedAt: c.now(),
		OwnerID:   c.api.UserID(),
	}
	c.persist(ctx)
	return c.snapshot(), nil
}

// Cached returns the current entry without touching the network, or nil.
func (c *ProfileCache) Cached(ctx context.Context) *Entry[healthsdk.UserProfile] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureLoaded(ctx)
	return c.snapshot()
}

// Invalidate clears the entry in memory and on disk. Called on logout and
// on account switch; it also bumps the generation so in-flight responses
// land in the void instead of resurrecting purged data.
func (c *ProfileCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.applied = c.gen
	c.purge(ctx)
}

// ensureLoaded lazily restores the persisted entry. Callers hold c.mu.
func (c *ProfileCache) ensureLoaded(ctx context.Context) {
	if c.loaded {
		// Already restored; just re-check ownership in case the account
		// changed underneath us.
		c.dropIfForeign(ctx)
		return
	}
	c.loaded = true

	raw, err := c.store.Get(ctx, localstore.KeyCachedProfile)
	if err != nil {
		return
	}

	var entry Entry[healthsdk.UserProfile]
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// Corrupted persisted entry is the same as no cache.
		_ = c.store.Delete(ctx, localstore.KeyCachedProfile)
		return
	}
	c.entry = &entry
	c.dropIfForeign(ctx)
}

// dropIfForeign enforces the ownership invariant: an entry fetched for a
// different account is treated as no cache at all. Callers hold c.mu.
func (c *ProfileCache) dropIfForeign(ctx context.Context) {
	if c.entry == nil {
		return
	}
	if owner := c.api.UserID(); owner == "" || c.entry.OwnerID != owner {
		c.purge(ctx)
	}
}

// purge drops the entry in memory and on disk. Callers hold c.mu.
func (c *ProfileCache) purge(ctx context.Context) {
	c.entry = nil
	_ = c.store.Delete(ctx, localstore.KeyCachedProfile)
}

// persist writes the current entry to the local store. Persistence is best
// effort: a failed write costs offline availability, not correctness.
// Callers hold c.mu.
func (c *ProfileCache) persist(ctx context.Context) {
	if c.entry == nil {
		return
	}
	raw, err := json.Marshal(c.entry)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, localstore.KeyCachedProfile, string(raw))
}

// snapshot returns a copy of the entry so callers cannot mutate the cache.
// Callers hold c.mu.
func (c *ProfileCache) snapshot() *Entry[healthsdk.UserProfile] {
	if c.entry == nil {
		return nil
	}
	cp := *c.entry
	return &cp
}

func ptr[T any](v T) *T { return &v }
