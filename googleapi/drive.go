package googleapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultDriveUploadURL = "https://www.googleapis.com/upload/drive/v3/files?uploadType=multipart"
	defaultDriveAPIURL    = "https://www.googleapis.com/drive/v3"

	// multipartBoundary must match the boundary token declared in the
	// Content-Type header of the upload request.
	multipartBoundary = "foo_bar_baz"
)

// UploadInput describes one file going into the owner's Drive folder.
type UploadInput struct {
	FileName string
	MIMEType string
	FolderID string
	Content  []byte
}

// Folder is a Drive folder as returned by the files listing.
type Folder struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Parents []string `json:"parents,omitempty"`
}

// DriveClient performs delegated uploads and folder listings against
// the Drive v3 API using a caller-supplied bearer token.
type DriveClient struct {
	uploadURL      string
	apiURL         string
	uploadClient   *http.Client
	metadataClient *http.Client
}

func NewDriveClient(uploadTimeout, metadataTimeout time.Duration) *DriveClient {
	return &DriveClient{
		uploadURL:      defaultDriveUploadURL,
		apiURL:         defaultDriveAPIURL,
		uploadClient:   &http.Client{Timeout: uploadTimeout},
		metadataClient: &http.Client{Timeout: metadataTimeout},
	}
}

// NewDriveClientWithURLs is used by tests to point the client at a
// local server.
func NewDriveClientWithURLs(uploadURL, apiURL string, uploadTimeout, metadataTimeout time.Duration) *DriveClient {
	c := NewDriveClient(uploadTimeout, metadataTimeout)
	c.uploadURL = uploadURL
	c.apiURL = apiURL
	return c
}

// UploadMultipart sends a single multipart/related request: a JSON
// metadata part naming the file and its parent folder, then the file
// bytes base64-encoded under their declared content type. Returns the
// created Drive file id.
func (c *DriveClient) UploadMultipart(ctx context.Context, accessToken string, in UploadInput) (string, error) {
	body, err := buildMultipartBody(in)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("googleapi: build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "multipart/related; boundary="+multipartBoundary)

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("googleapi: drive upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("googleapi: read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newAPIError(resp.StatusCode, respBody)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("googleapi: decode upload response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("googleapi: upload response missing file id")
	}
	return created.ID, nil
}

// buildMultipartBody joins the metadata part, the base64 content part
// and the closing delimiter with CRLF, exactly as the Drive multipart
// upload contract requires.
func buildMultipartBody(in UploadInput) ([]byte, error) {
	metadata, err := json.Marshal(map[string]interface{}{
		"name":    in.FileName,
		"parents": []string{in.FolderID},
	})
	if err != nil {
		return nil, fmt.Errorf("googleapi: marshal upload metadata: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("--" + multipartBoundary + "\r\n")
	buf.WriteString("Content-Type: application/json; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.Write(metadata)
	buf.WriteString("\r\n")
	buf.WriteString("--" + multipartBoundary + "\r\n")
	buf.WriteString("Content-Type: " + in.MIMEType + "\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(base64.StdEncoding.EncodeToString(in.Content))
	buf.WriteString("\r\n")
	buf.WriteString("--" + multipartBoundary + "--")
	return buf.Bytes(), nil
}

// ListFolders returns the Drive folders visible to the bearer token.
func (c *DriveClient) ListFolders(ctx context.Context, accessToken string) ([]Folder, error) {
	q := url.Values{
		"q":      {`mimeType="application/vnd.google-apps.folder"`},
		"fields": {"files(id,name,parents)"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/files?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("googleapi: build folder list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.metadataClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googleapi: list folders: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("googleapi: read folder list response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var listing struct {
		Files []Folder `json:"files"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("googleapi: decode folder list: %w", err)
	}
	return listing.Files, nil
}
