// Package syncer coordinates post-unlock hydration of the local caches.
package syncer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amanihealth/amani/internal/cache"
	"github.com/amanihealth/amani/pkg/healthsdk"
	"github.com/amanihealth/amani/pkg/slogx"
)

// ProfileSource refreshes the cached user profile.
type ProfileSource interface {
	Get(ctx context.Context) (*cache.Entry[healthsdk.UserProfile], error)
}

// RecordSource refreshes the cached medical record list.
type RecordSource interface {
	List(ctx context.Context) ([]healthsdk.MedicalRecord, cache.Source, error)
}

// Result reports which hydration fetches completed with fresh data.
// A false flag means that cache is serving stale data or nothing at all;
// the other cache is unaffected.
type Result struct {
	ProfileOK bool
	RecordsOK bool
}

// Coordinator fans out cache refreshes after the session unlocks.
type Coordinator struct {
	profile ProfileSource
	records RecordSource
}

func NewCoordinator(profile ProfileSource, records RecordSource) *Coordinator {
	return &Coordinator{profile: profile, records: records}
}

// Hydrate refreshes both caches concurrently. Each fetch settles on its
// own: a failure on one side never blocks or discards the other.
func (c *Coordinator) Hydrate(ctx context.Context) Result {
	log := slogx.FromContext(ctx)

	var (
		wg  sync.WaitGroup
		res Result
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		entry, err := c.profile.Get(ctx)
		if err != nil {
			log.Warn("profile hydration failed", slog.Any("error", err))
			return
		}
		res.ProfileOK = entry != nil && entry.Source == cache.SourceFresh
	}()
	go func() {
		defer wg.Done()
		_, src, err := c.records.List(ctx)
		if err != nil {
			log.Warn("record hydration failed", slog.Any("error", err))
			return
		}
		res.RecordsOK = src == cache.SourceFresh
	}()
	wg.Wait()

	return res
}
