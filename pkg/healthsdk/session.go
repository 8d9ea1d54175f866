package healthsdk

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is an authenticated session against the backend. It holds the
// bearer token and the identity it was minted for. Sessions are safe for
// concurrent use.
//
// There is no silent re-authentication here: when the token expires or is
// revoked, operations fail with an authorization error and the caller
// decides whether to prompt for a fresh login.
type Session struct {
	client *SDKClient

	mu        sync.RWMutex
	token     string
	userID    string
	role      string
	expiresAt time.Time
}

// newSession creates a session from a login/register payload.
func newSession(client *SDKClient, payload AuthPayload) *Session {
	return &Session{
		client:    client,
		token:     payload.Token,
		userID:    payload.User.ID,
		role:      payload.User.Role,
		expiresAt: time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}
}

// NewSessionFromToken restores a session from a previously issued token,
// e.g. one persisted across an app restart. The token's subject, role and
// expiry are read without signature verification; the server remains the
// authority and will reject a forged or revoked token on first use.
func (c *SDKClient) NewSessionFromToken(token string) (*Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, &APIError{Kind: KindAuthorization, Message: "malformed session token", cause: err}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, &APIError{Kind: KindAuthorization, Message: "session token has no subject"}
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	role, _ := claims["role"].(string)

	return &Session{
		client:    c,
		token:     token,
		userID:    sub,
		role:      role,
		expiresAt: expiresAt,
	}, nil
}

// UserID returns the id of the authenticated account. Cache owners compare
// this against cached-entry ownership before serving anything.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Role returns the account's role label.
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Token returns the current bearer token, e.g. for persisting across app
// restarts.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether the session holds an unexpired token.
// A true result is a local guess, not a guarantee: a revoked token still
// fails server-side with an authorization error.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && time.Now().Before(s.expiresAt)
}

// Logout revokes the session server-side and clears the local token. The
// local token is cleared even when revocation fails: the caller is walking
// away from this identity either way.
func (s *Session) Logout(ctx context.Context) error {
	_, err := doAuth[struct{}](ctx, s, http.MethodPost, "/auth/logout", nil)

	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	return err
}

// doAuth performs an authenticated request and decodes the envelope data.
func doAuth[T any](ctx context.Context, s *Session, method, path string, body any) (T, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	var zero T
	if token == "" {
		return zero, &APIError{Kind: KindAuthorization, Message: "session is logged out"}
	}

	resp, err := s.client.doRequest(ctx, method, path, token, body)
	if err != nil {
		return zero, err
	}
	return decodeData[T](resp)
}
