package googleapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTokenEndpoint = "https://oauth2.googleapis.com/token"

// TokenResponse is the token endpoint's answer to a refresh exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// TokenClient exchanges refresh tokens at the Google OAuth token
// endpoint. A transport failure surfaces as a plain wrapped error; a
// rejection from the endpoint surfaces as an *APIError, which callers
// treat as "the refresh token is no longer good".
type TokenClient struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewTokenClient(clientID, clientSecret string, timeout time.Duration) *TokenClient {
	return &TokenClient{
		endpoint:     defaultTokenEndpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// NewTokenClientWithEndpoint is used by tests to point the client at
// a local server.
func NewTokenClientWithEndpoint(endpoint, clientID, clientSecret string, timeout time.Duration) *TokenClient {
	c := NewTokenClient(clientID, clientSecret, timeout)
	c.endpoint = endpoint
	return c
}

func (c *TokenClient) RefreshAccessToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("googleapi: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("googleapi: token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("googleapi: read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return TokenResponse{}, newAPIError(resp.StatusCode, body)
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return TokenResponse{}, fmt.Errorf("googleapi: decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("googleapi: token response missing access_token")
	}
	return token, nil
}
