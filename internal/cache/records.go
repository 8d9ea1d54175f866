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

// RecordsAPI is the slice of the remote session the record cache consumes.
// Satisfied by *healthsdk.Session.
type RecordsAPI interface {
	UserID() string
	ListMedicalRecords(ctx context.Context) ([]healthsdk.MedicalRecord, error)
	AddMedicalRecord(ctx context.Context, rec healthsdk.MedicalRecord) (healthsdk.MedicalRecord, error)
	UpdateMedicalRecord(ctx context.Context, id string, patch healthsdk.RecordPatch) (healthsdk.MedicalRecord, error)
	DeleteMedicalRecord(ctx context.Context, id string) error
}

// RecordCache is a cache-aside store for the medical-record list. The list
// is replaced wholesale by successful fetches and mutated only by confirmed
// writes: a record the server never acknowledged must never appear locally.
// Server response order is preserved; sorting is the caller's concern.
type RecordCache struct {
	api   RecordsAPI
	store localstore.Store

	mu     sync.Mutex
	entry  *Entry[[]healthsdk.MedicalRecord]
	loaded bool

	gen     uint64
	applied uint64

	now func() time.Time
}

func NewRecordCache(api RecordsAPI, store localstore.Store) *RecordCache {
	return &RecordCache{
		api:   api,
		store: store,
		now:   time.Now,
	}
}

// List fetches the full record list. On success the cache is replaced
// wholesale; when the server is unreachable the cached list is returned
// marked stale; on an authorization failure the cache is cleared and the
// error returned with an empty list.
func (c *RecordCache) List(ctx context.Context) ([]healthsdk.MedicalRecord, Source, error) {
	c.mu.Lock()
	c.ensureLoaded(ctx)
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	records, err := c.api.ListMedicalRecords(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen < c.applied {
		// Superseded by a later fetch or a confirmed write.
		return c.records(), c.source(), nil
	}

	switch {
	case err == nil:
		c.applied = gen
		if records == nil {
			records = []healthsdk.MedicalRecord{}
		}
		c.entry = &Entry[[]healthsdk.MedicalRecord]{
			Value:     records,
			Source:    SourceFresh,
			FetchedAt: c.now(),
			OwnerID:   c.api.UserID(),
		}
		c.persist(ctx)
		return c.records(), SourceFresh, nil

	case healthsdk.IsAuthorization(err):
		c.applied = gen
		c.purge(ctx)
		return nil, "", err

	case healthsdk.IsNetworkUnavailable(err):
		c.applied = gen
		if c.entry != nil {
			c.entry = ptr(c.entry.Stale())
			c.persist(ctx)
			return c.records(), SourceStale, nil
		}
		return nil, "", err

	default:
		c.applied = gen
		return nil, "", err
	}
}

// Add creates the record remotely first; only the server's canonical record,
// with its assigned id, is appended to the cache. On any failure the cached
// list is left exactly as it was and the error propagates - no ghost entry.
func (c *RecordCache) Add(ctx context.Context, rec healthsdk.MedicalRecord) (healthsdk.MedicalRecord, error) {
	created, err := c.api.AddMedicalRecord(ctx, rec)
	if err != nil {
		return healthsdk.MedicalRecord{}, fmt.Errorf("record create rejected: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.confirmWrite(ctx)
	if c.entry == nil {
		// First write before any fetch: the confirmed record must still be
		// retrievable offline, so it seeds the cache.
		c.entry = &Entry[[]healthsdk.MedicalRecord]{
			Source:    SourceFresh,
			FetchedAt: c.now(),
			OwnerID:   c.api.UserID(),
		}
	}
	c.entry.Value = append(c.entry.Value, created)
	c.persist(ctx)
	return created, nil
}

// Update patches the record remotely first and mirrors the canonical result
// into the cache only on success.
func (c *RecordCache) Update(ctx context.Context, id string, patch healthsdk.RecordPatch) (healthsdk.MedicalRecord, error) {
	updated, err := c.api.UpdateMedicalRecord(ctx, id, patch)
	if err != nil {
		return healthsdk.MedicalRecord{}, fmt.Errorf("record update rejected: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.confirmWrite(ctx)
	if c.entry != nil {
		for i := range c.entry.Value {
			if c.entry.Value[i].ID == updated.ID {
				c.entry.Value[i] = updated
				break
			}
		}
		c.persist(ctx)
	}
	return updated, nil
}

// Delete removes the record remotely first and drops it from the cache only
// on success.
func (c *RecordCache) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteMedicalRecord(ctx, id); err != nil {
		return fmt.Errorf("record delete rejected: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.confirmWrite(ctx)
	if c.entry != nil {
		kept := c.entry.Value[:0]
		for _, rec := range c.entry.Value {
			if rec.ID != id {
				kept = append(kept, rec)
			}
		}
		c.entry.Value = kept
		c.persist(ctx)
	}
	return nil
}

// Cached returns the cached list without touching the network. The second
// return is false when there is no usable cache.
func (c *RecordCache) Cached(ctx context.Context) ([]healthsdk.MedicalRecord, Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureLoaded(ctx)
	if c.entry == nil {
		return nil, "", false
	}
	return c.records(), c.source(), true
}

// Invalidate clears the list in memory and on disk and supersedes any
// in-flight responses.
func (c *RecordCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.applied = c.gen
	c.purge(ctx)
}

// confirmWrite records that a write completed, superseding any fetch still
// in flight. Callers hold c.mu.
func (c *RecordCache) confirmWrite(ctx context.Context) {
	c.gen++
	c.applied = c.gen
	c.ensureLoaded(ctx)
}

// ensureLoaded lazily restores the persisted list. Callers hold c.mu.
func (c *RecordCache) ensureLoaded(ctx context.Context) {
	if c.loaded {
		c.dropIfForeign(ctx)
		return
	}
	c.loaded = true

	raw, err := c.store.Get(ctx, localstore.KeyCachedRecords)
	if err != nil {
		return
	}

	var entry Entry[[]healthsdk.MedicalRecord]
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		_ = c.store.Delete(ctx, localstore.KeyCachedRecords)
		return
	}
	c.entry = &entry
	c.dropIfForeign(ctx)
}

// dropIfForeign drops a list cached for a different account. Callers hold c.mu.
func (c *RecordCache) dropIfForeign(ctx context.Context) {
	if c.entry == nil {
		return
	}
	if owner := c.api.UserID(); owner == "" || c.entry.OwnerID != owner {
		c.purge(ctx)
	}
}

func (c *RecordCache) purge(ctx context.Context) {
	c.entry = nil
	_ = c.store.Delete(ctx, localstore.KeyCachedRecords)
}

func (c *RecordCache) persist(ctx context.Context) {
	if c.entry == nil {
		return
	}
	raw, err := json.Marshal(c.entry)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, localstore.KeyCachedRecords, string(raw))
}

// records returns a copy of the cached slice so callers cannot mutate the
// cache through the returned value. Callers hold c.mu.
func (c *RecordCache) records() []healthsdk.MedicalRecord {
	if c.entry == nil {
		return nil
	}
	out := make([]healthsdk.MedicalRecord, len(c.entry.Value))
	copy(out, c.entry.Value)
	return out
}

func (c *RecordCache) source() Source {
	if c.entry == nil {
		return ""
	}
	return c.entry.Source
}
