package healthsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the Amani backend. It exposes the unauthenticated
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for the given base URL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with email and password and returns a Session.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	payload, err := postJSON[AuthPayload](ctx, c, "/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return newSession(c, payload), nil
}

// Register creates an account and returns an already-authenticated Session.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	payload, err := postJSON[AuthPayload](ctx, c, "/auth/register", req)
	if err != nil {
		return nil, err
	}
	return newSession(c, payload), nil
}
