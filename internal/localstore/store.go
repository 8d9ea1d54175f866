package localstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("localstore: not found")

// ErrClosed is returned by operations on a store after Close.
var ErrClosed = errors.New("localstore: closed")

// Persisted keys. The secure store and the general store are separate Store
// instances with disjoint key ownership: the credential key lives only in
// the secure store, the session keys only in the general store.
const (
	KeyPINHash             = "credential.pinHash"
	KeyCachedProfile       = "session.cachedProfile"
	KeyCachedRecords       = "session.cachedMedicalRecords"
	KeyOnboardingCompleted = "app.onboardingCompleted"
)

// Store is a small key-value persistence boundary with an explicit
// lifecycle. Components receive a Store instead of reaching for platform
// storage directly, so tests can inject a scoped in-memory driver.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// ApplyMigrations brings the underlying schema up to date.
	ApplyMigrations() error

	// Ping verifies the store is still usable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
