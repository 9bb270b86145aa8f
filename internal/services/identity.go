package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultIdentityBaseURL = "https://api.divizend.com"

// IdentityProvider turns a one-time login code into the provider's user id.
type IdentityProvider interface {
	ResolveUser(ctx context.Context, code string) (string, error)
}

type sessionTokenResponse struct {
	SessionToken string `json:"sessionToken"`
}

type profileResponse struct {
	ID string `json:"id"`
}

// DivizendClient talks to the Divizend API.
type DivizendClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewDivizendClient(baseURL string) *DivizendClient {
	if baseURL == "" {
		baseURL = DefaultIdentityBaseURL
	}

	return &DivizendClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolveUser exchanges code for a provider session token and then fetches
// the profile belonging to that token.
func (c *DivizendClient) ResolveUser(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrInvalidAuthCode
	}

	var token sessionTokenResponse

	if err := c.getJSON(ctx, "/v1/auth/sessionToken/"+url.PathEscape(code), nil, &token); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}

	if token.SessionToken == "" {
		return "", ErrInvalidAuthCode
	}

	var profile profileResponse

	headers := map[string]string{"X-SessionToken": token.SessionToken}

	if err := c.getJSON(ctx, "/v1/users/me", headers, &profile); err != nil {
		return "", fmt.Errorf("profile: %w", err)
	}

	if profile.ID == "" {
		return "", fmt.Errorf("profile: %w", ErrIdentityProvider)
	}

	return profile.ID, nil
}

func (c *DivizendClient) getJSON(ctx context.Context, path string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIdentityProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		return ErrInvalidAuthCode
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", ErrIdentityProvider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrIdentityProvider, err)
	}

	return nil
}
