package cache

import "time"

// Source records the provenance of a cached value.
type Source string

const (
	// SourceFresh marks a value the server confirmed on the last fetch.
	SourceFresh Source = "fresh"
	// SourceStale marks a value served from cache because the server was
	// unreachable. The UI flags these as possibly outdated.
	SourceStale Source = "stale"
)

// Entry wraps a cached value with its provenance, fetch time, and the id of
// the account it was fetched for. OwnerID is checked before the entry is
// ever served: an entry owned by a different account is treated as no cache
// at all.
type Entry[T any] struct {
	Value     T         `json:"value"`
	Source    Source    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
	OwnerID   string    `json:"owner_id"`
}

// Stale returns a copy of the entry marked as a stale read.
func (e Entry[T]) Stale() Entry[T] {
	e.Source = SourceStale
	return e
}
