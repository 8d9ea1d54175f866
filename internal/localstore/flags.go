package localstore

import (
	"context"
	"errors"
)

// OnboardingCompleted reports whether the first-run onboarding flow has been
// finished on this device. Absence of the flag means not completed.
func OnboardingCompleted(ctx context.Context, s Store) (bool, error) {
	v, err := s.Get(ctx, KeyOnboardingCompleted)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetOnboardingCompleted persists the onboarding flag.
func SetOnboardingCompleted(ctx context.Context, s Store, done bool) error {
	if !done {
		return s.Delete(ctx, KeyOnboardingCompleted)
	}
	return s.Set(ctx, KeyOnboardingCompleted, "true")
}
