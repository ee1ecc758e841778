package googleapi

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBuildMultipartBodyExactShape(t *testing.T) {
	content := []byte("fake video bytes")
	body, err := buildMultipartBody(UploadInput{
		FileName: "clip.mp4",
		MIMEType: "video/mp4",
		FolderID: "F1",
		Content:  content,
	})
	if err != nil {
		t.Fatalf("buildMultipartBody: %v", err)
	}

	want := strings.Join([]string{
		"--foo_bar_baz",
		"Content-Type: application/json; charset=UTF-8",
		"",
		`{"name":"clip.mp4","parents":["F1"]}`,
		"--foo_bar_baz",
		"Content-Type: video/mp4",
		"",
		base64.StdEncoding.EncodeToString(content),
		"--foo_bar_baz--",
	}, "\r\n")
	if string(body) != want {
		t.Errorf("body mismatch\ngot:\n%s\nwant:\n%s", body, want)
	}
}

func TestUploadMultipartSendsAuthorizedRequest(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"drive-file-1","name":"clip.mp4"}`))
	}))
	defer server.Close()

	client := NewDriveClientWithURLs(server.URL, server.URL, time.Second, time.Second)
	content := []byte("fake video bytes")
	fileID, err := client.UploadMultipart(context.Background(), "bearer-token", UploadInput{
		FileName: "clip.mp4",
		MIMEType: "video/mp4",
		FolderID: "F1",
		Content:  content,
	})
	if err != nil {
		t.Fatalf("UploadMultipart: %v", err)
	}

	if fileID != "drive-file-1" {
		t.Errorf("file id = %q", fileID)
	}
	if gotAuth != "Bearer bearer-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotContentType != "multipart/related; boundary=foo_bar_baz" {
		t.Errorf("content type = %q", gotContentType)
	}
	if !strings.Contains(string(gotBody), `{"name":"clip.mp4","parents":["F1"]}`) {
		t.Errorf("body missing metadata part:\n%s", gotBody)
	}
	if !strings.Contains(string(gotBody), base64.StdEncoding.EncodeToString(content)) {
		t.Error("body missing base64 content part")
	}
}

func TestUploadMultipartClassifiesRejections(t *testing.T) {
	cases := []struct {
		status   int
		sentinel error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusInternalServerError, ErrServerError},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error":{"message":"rejected"}}`))
		}))

		client := NewDriveClientWithURLs(server.URL, server.URL, time.Second, time.Second)
		_, err := client.UploadMultipart(context.Background(), "tok", UploadInput{
			FileName: "clip.mp4", MIMEType: "video/mp4", FolderID: "F1", Content: []byte("x"),
		})
		server.Close()

		if !errors.Is(err, tc.sentinel) {
			t.Errorf("status %d: err = %v, want sentinel %v", tc.status, err, tc.sentinel)
		}
		wantAuth := tc.status == http.StatusUnauthorized || tc.status == http.StatusForbidden
		if IsAuthError(err) != wantAuth {
			t.Errorf("status %d: IsAuthError = %v, want %v", tc.status, IsAuthError(err), wantAuth)
		}
	}
}

func TestListFoldersQueriesFolderMimeType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("q"); got != `mimeType="application/vnd.google-apps.folder"` {
			t.Errorf("q = %q", got)
		}
		if got := q.Get("fields"); got != "files(id,name,parents)" {
			t.Errorf("fields = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[{"id":"F1","name":"Videos"},{"id":"F2","name":"Archive","parents":["F1"]}]}`))
	}))
	defer server.Close()

	client := NewDriveClientWithURLs(server.URL, server.URL, time.Second, time.Second)
	folders, err := client.ListFolders(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("folders = %d, want 2", len(folders))
	}
	if folders[0].ID != "F1" || folders[0].Name != "Videos" {
		t.Errorf("first folder = %+v", folders[0])
	}
	if len(folders[1].Parents) != 1 || folders[1].Parents[0] != "F1" {
		t.Errorf("second folder parents = %v", folders[1].Parents)
	}
}
