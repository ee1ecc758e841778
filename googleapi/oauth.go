package googleapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// ConsentScopes are requested at sign-in: identity for the account
// record, drive.file + drive.readonly for delegated uploads and the
// folder picker, gmail.send for completion notifications.
var ConsentScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/gmail.send",
}

// UserInfo is the subset of the userinfo endpoint we keep.
type UserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthClient drives the owner's consent flow.
type OAuthClient struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

func NewOAuthClient(clientID, clientSecret, redirectURL string, timeout time.Duration) *OAuthClient {
	return &OAuthClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       ConsentScopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// AuthCodeURL returns the consent URL. Offline access plus a forced
// consent prompt so Google issues a refresh token every time.
func (c *OAuthClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the callback code for the delegated token pair.
func (c *OAuthClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("googleapi: code exchange: %w", err)
	}
	return token, nil
}

// FetchUserInfo resolves the signed-in account behind a bearer token.
func (c *OAuthClient) FetchUserInfo(ctx context.Context, accessToken string) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return UserInfo{}, fmt.Errorf("googleapi: build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("googleapi: userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UserInfo{}, fmt.Errorf("googleapi: read userinfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, newAPIError(resp.StatusCode, body)
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return UserInfo{}, fmt.Errorf("googleapi: decode userinfo: %w", err)
	}
	return info, nil
}
