package googleapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRefreshAccessTokenSendsForm(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"refresh_token": r.PostFormValue("refresh_token"),
			"grant_type":    r.PostFormValue("grant_type"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"new-token","expires_in":3599,"token_type":"Bearer"}`))
	}))
	defer server.Close()

	client := NewTokenClientWithEndpoint(server.URL, "cid", "csecret", time.Second)
	token, err := client.RefreshAccessToken(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}

	if token.AccessToken != "new-token" || token.ExpiresIn != 3599 {
		t.Errorf("token = %+v", token)
	}
	want := map[string]string{
		"client_id":     "cid",
		"client_secret": "csecret",
		"refresh_token": "refresh-1",
		"grant_type":    "refresh_token",
	}
	for key, value := range want {
		if gotForm[key] != value {
			t.Errorf("form[%s] = %q, want %q", key, gotForm[key], value)
		}
	}
}

func TestRefreshAccessTokenRejectionIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	client := NewTokenClientWithEndpoint(server.URL, "cid", "csecret", time.Second)
	_, err := client.RefreshAccessToken(context.Background(), "revoked")
	if !IsAPIError(err) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest sentinel", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestRefreshAccessTokenTransportFailureIsNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 立即关掉,迫使连接失败

	client := NewTokenClientWithEndpoint(server.URL, "cid", "csecret", time.Second)
	_, err := client.RefreshAccessToken(context.Background(), "refresh-1")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if IsAPIError(err) {
		t.Errorf("transport failure classified as APIError: %v", err)
	}
}

func TestRefreshAccessTokenMissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer server.Close()

	client := NewTokenClientWithEndpoint(server.URL, "cid", "csecret", time.Second)
	if _, err := client.RefreshAccessToken(context.Background(), "refresh-1"); err == nil {
		t.Fatal("expected error for response without access_token")
	}
}
