package healthsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// envelope is the wire shape of every API response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request. An empty token means unauthenticated.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path, token string,
	body any,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return resp, nil
}

// decodeData reads the response, maps failures to APIErrors, and unmarshals
// the envelope data into T.
func decodeData[T any](resp *http.Response) (T, error) {
	var zero T

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return zero, wrapTransportError(err)
	}

	if err := checkResponse(resp.StatusCode, body); err != nil {
		return zero, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, &APIError{
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			cause:      err,
		}
	}

	var data T
	if len(env.Data) == 0 {
		// Some operations (logout, delete) carry no payload.
		return data, nil
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return zero, &APIError{
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    "unexpected data shape",
			cause:      err,
		}
	}
	return data, nil
}

// checkResponse maps a non-2xx response to a typed APIError.
func checkResponse(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	msg := http.StatusText(status)
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		msg = env.Error
	}

	return &APIError{
		Kind:       kindForStatus(status),
		StatusCode: status,
		Message:    msg,
	}
}

// postJSON performs an unauthenticated POST and decodes the envelope data.
func postJSON[T any](ctx context.Context, c *SDKClient, path string, body any) (T, error) {
	var zero T
	resp, err := c.doRequest(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return zero, err
	}
	return decodeData[T](resp)
}
