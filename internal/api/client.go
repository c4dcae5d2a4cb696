package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/config"
	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/credentials"
	"github.com/educatedpolarbear/Green-Buddy-sub000/pkg/logger"
)

// ErrUnauthorized marks a rejected credential (HTTP 401). When it is
// returned, the credential store has already been cleared and the redirect
// hook fired; callers must not show the normal failure toast.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response decoded from the server's JSON error body.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Green Buddy REST backend. Every authenticated call
// attaches a bearer token from the injected credentials provider.
type Client struct {
	baseURL string
	http    *http.Client
	creds   credentials.Provider

	// OnUnauthorized is invoked after a 401 clears the credential, so the
	// embedding application can route the user to the login boundary.
	OnUnauthorized func()
}

// NewClient creates a new Client for the given backend.
func NewClient(cfg *config.Config, creds credentials.Provider) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.APIBaseURL,
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
	}
}

// do sends an authenticated request and decodes the response into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.creds.Token()
	if err != nil {
		logger.Log.WithField("path", path).Warn("No credential for authenticated request")
	} else {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateSession()
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %v", err)
		}
	}
	return nil
}

// invalidateSession clears the stored credential and notifies the login
// boundary. The 401 path bypasses normal rollback messaging.
func (c *Client) invalidateSession() {
	logger.Log.Warn("Session rejected by server, clearing credential")
	c.creds.Clear()
	if c.OnUnauthorized != nil {
		c.OnUnauthorized()
	}
}

// decodeError extracts the server's message or error field, falling back to a
// generic string when the body carries neither.
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode, Message: "request failed"}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		} else if body.Error != "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
