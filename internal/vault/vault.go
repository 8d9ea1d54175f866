// Package vault persists the device PIN credential as a one-way hash in the
// secure local store. It has no remote awareness: the PIN never reaches the
// network layer.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amanihealth/amani/internal/localstore"
	"github.com/amanihealth/amani/pkg/cryptox"
)

const pinLength = 4

var (
	// ErrInvalidPIN reports a malformed PIN (anything but exactly 4 digits).
	ErrInvalidPIN = errors.New("vault: pin must be exactly 4 digits")

	// ErrPINMismatch reports a failed current-PIN check during ChangePIN.
	ErrPINMismatch = errors.New("vault: current pin does not match")
)

// Vault owns the credential key in the secure store. At most one credential
// exists; SetPIN overwrites. The mutex serializes store writes because the
// underlying secure store accepts one write at a time.
type Vault struct {
	mu    sync.Mutex
	store localstore.Store
}

func New(store localstore.Store) *Vault {
	return &Vault{store: store}
}

// SetPIN validates and stores a one-way hash of pin, overwriting any prior
// credential.
func (v *Vault) SetPIN(ctx context.Context, pin string) error {
	if !validPIN(pin) {
		return ErrInvalidPIN
	}

	hash, err := cryptox.Hash(pin)
	if err != nil {
		return fmt.Errorf("vault: failed to hash pin: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.store.Set(ctx, localstore.KeyPINHash, hash); err != nil {
		return fmt.Errorf("vault: failed to persist credential: %w", err)
	}
	return nil
}

// VerifyPIN reports whether pin matches the stored credential. A missing
// credential verifies false, not an error.
func (v *Vault) VerifyPIN(ctx context.Context, pin string) (bool, error) {
	v.mu.Lock()
	hash, err := v.store.Get(ctx, localstore.KeyPINHash)
	v.mu.Unlock()

	if errors.Is(err, localstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("vault: failed to read credential: %w", err)
	}

	err = cryptox.Verify(pin, hash)
	if errors.Is(err, cryptox.ErrMismatch) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("vault: stored credential is unreadable: %w", err)
	}
	return true, nil
}

// HasPIN reports whether a credential is stored.
func (v *Vault) HasPIN(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, err := v.store.Get(ctx, localstore.KeyPINHash)
	if errors.Is(err, localstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("vault: failed to read credential: %w", err)
	}
	return true, nil
}

// ResetPIN deletes the stored credential. Idempotent.
func (v *Vault) ResetPIN(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.store.Delete(ctx, localstore.KeyPINHash); err != nil {
		return fmt.Errorf("vault: failed to delete credential: %w", err)
	}
	return nil
}

// ChangePIN replaces the credential after verifying the current PIN.
func (v *Vault) ChangePIN(ctx context.Context, current, next string) error {
	ok, err := v.VerifyPIN(ctx, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPINMismatch
	}
	return v.SetPIN(ctx, next)
}

func validPIN(pin string) bool {
	if len(pin) != pinLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
