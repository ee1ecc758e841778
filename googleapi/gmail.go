package googleapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// MailClient sends notification mail through the Gmail API using the
// owner's own delegated bearer token; the owner is both sender and
// recipient.
type MailClient struct {
	timeout time.Duration
}

func NewMailClient(timeout time.Duration) *MailClient {
	return &MailClient{timeout: timeout}
}

// httpClient builds the authenticated transport with the client-wide
// timeout; the generated Gmail service itself sets none.
func (c *MailClient) httpClient(ctx context.Context, accessToken string) *http.Client {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := oauth2.NewClient(ctx, source)
	client.Timeout = c.timeout
	return client
}

func (c *MailClient) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(c.httpClient(ctx, accessToken)))
	if err != nil {
		return nil, fmt.Errorf("googleapi: gmail service: %w", err)
	}
	return srv, nil
}

// CheckSendCapability probes the Gmail profile endpoint. A failure
// means the bearer token lacks the gmail.send grant (or is no longer
// valid) and notification should degrade to a no-op.
func (c *MailClient) CheckSendCapability(ctx context.Context, accessToken string) error {
	srv, err := c.service(ctx, accessToken)
	if err != nil {
		return err
	}
	if _, err := srv.Users.GetProfile("me").Do(); err != nil {
		return fmt.Errorf("googleapi: gmail capability check: %w", err)
	}
	return nil
}

// SendMessage sends an HTML mail as the token's owner.
func (c *MailClient) SendMessage(ctx context.Context, accessToken, to, subject, htmlBody string) error {
	srv, err := c.service(ctx, accessToken)
	if err != nil {
		return err
	}

	raw := strings.Join([]string{
		"From: " + to,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		htmlBody,
	}, "\r\n")

	msg := &gmail.Message{
		Raw: base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(raw)),
	}

	if _, err := srv.Users.Messages.Send("me", msg).Do(); err != nil {
		return fmt.Errorf("googleapi: gmail send: %w", err)
	}
	return nil
}
