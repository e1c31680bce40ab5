package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"polibest/api/internal/config"
)

const sessionIDHeader = "X-Session-ID"

// Profile is the identity returned by the provider for an exchanged
// session id.
type Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Client exchanges an opaque external session id for a verified profile.
// The call is bounded by a fixed timeout so a slow provider cannot hold a
// request open indefinitely.
type Client struct {
	http *http.Client
	url  string
}

func NewClient(cfg config.AuthConfig) *Client {
	return &Client{
		http: &http.Client{Timeout: cfg.ProviderTimeout},
		url:  cfg.ProviderURL,
	}
}

func (c *Client) Exchange(ctx context.Context, sessionID string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(sessionIDHeader, sessionID)

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("provider rejected session: status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}

	return profile, nil
}
