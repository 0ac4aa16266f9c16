// Package magiclink talks to the Stytch magic-link API. Sessions
// themselves are our own signed cookies; Stytch only proves email
// ownership.
package magiclink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrAuthFailed is returned when the provider rejects a token.
var ErrAuthFailed = errors.New("magic link authentication failed")

// Provider is the identity-provider contract the auth handlers depend on.
type Provider interface {
	// LoginOrCreate emails a magic link, creating the Stytch user if
	// needed.
	LoginOrCreate(ctx context.Context, email string) error
	// Authenticate redeems a magic-link token and returns the verified
	// email address.
	Authenticate(ctx context.Context, token string) (string, error)
}

// Client is the HTTP implementation of Provider against the Stytch REST
// API.
type Client struct {
	baseURL    string
	projectID  string
	secret     string
	httpClient *http.Client
}

// NewClient builds a Stytch client. baseURL selects the test or live
// environment.
func NewClient(baseURL, projectID, secret string) *Client {
	return &Client{
		baseURL:    baseURL,
		projectID:  projectID,
		secret:     secret,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) LoginOrCreate(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	_, err := c.post(ctx, "/v1/magic_links/email/login_or_create", payload)
	if err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}

func (c *Client) Authenticate(ctx context.Context, token string) (string, error) {
	payload := map[string]interface{}{
		"token":                    token,
		"session_duration_minutes": 60,
	}
	body, err := c.post(ctx, "/v1/magic_links/authenticate", payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		User struct {
			Emails []struct {
				Email string `json:"email"`
			} `json:"emails"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse authenticate response: %w", err)
	}
	if len(parsed.User.Emails) == 0 {
		return "", fmt.Errorf("authenticate response has no email: %w", ErrAuthFailed)
	}
	return parsed.User.Emails[0].Email, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.projectID, c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, fmt.Errorf("stytch status %d: %w", resp.StatusCode, ErrAuthFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stytch status %d", resp.StatusCode)
	}
	return respBody, nil
}
