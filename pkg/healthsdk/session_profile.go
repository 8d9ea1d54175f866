package healthsdk

import (
	"context"
	"net/http"
)

// GetCurrentUser fetches the authenticated account's profile.
func (s *Session) GetCurrentUser(ctx context.Context) (UserProfile, error) {
	return doAuth[UserProfile](ctx, s, http.MethodGet, "/users/me", nil)
}

// UpdateProfile applies a partial update to the profile and returns the
// server's canonical result.
func (s *Session) UpdateProfile(ctx context.Context, patch ProfilePatch) (UserProfile, error) {
	return doAuth[UserProfile](ctx, s, http.MethodPatch, "/users/me", patch)
}

// GetPatientProfile fetches the maternal sub-profile.
func (s *Session) GetPatientProfile(ctx context.Context) (PatientProfile, error) {
	return doAuth[PatientProfile](ctx, s, http.MethodGet, "/patients/me", nil)
}

// UpdatePatientProfile applies a partial update to the maternal sub-profile.
func (s *Session) UpdatePatientProfile(ctx context.Context, patch PatientPatch) (PatientProfile, error) {
	return doAuth[PatientProfile](ctx, s, http.MethodPatch, "/patients/me", patch)
}
