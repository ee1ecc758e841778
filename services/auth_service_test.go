package services

import (
	"context"
	"testing"
	"time"

	"drivedrop/googleapi"
	"drivedrop/utils"

	"golang.org/x/oauth2"
)

func TestHandleCallbackRejectsUnknownState(t *testing.T) {
	setupTestConfig()
	svc := NewAuthService(newFakeUserRepo(), &fakeOAuth{})

	_, err := svc.HandleCallback(context.Background(), "never-issued", "code")
	if !IsCode(err, CodeInvalidInput) {
		t.Fatalf("err = %v, want code %s", err, CodeInvalidInput)
	}
}

func TestHandleCallbackStateIsSingleUse(t *testing.T) {
	setupTestConfig()
	oauth := &fakeOAuth{
		token: &oauth2.Token{AccessToken: "acc", RefreshToken: "ref", Expiry: time.Now().Add(time.Hour)},
		info:  googleapi.UserInfo{ID: "g-1", Email: "owner@example.com", Name: "Owner"},
	}
	svc := NewAuthService(newFakeUserRepo(), oauth)

	out, err := svc.GetAuthURL(context.Background())
	if err != nil {
		t.Fatalf("GetAuthURL: %v", err)
	}
	if _, err := svc.HandleCallback(context.Background(), out.State, "code"); err != nil {
		t.Fatalf("first callback: %v", err)
	}

	_, err = svc.HandleCallback(context.Background(), out.State, "code")
	if !IsCode(err, CodeInvalidInput) {
		t.Fatalf("replayed state err = %v, want code %s", err, CodeInvalidInput)
	}
}

func TestHandleCallbackUpsertsUserAndKeepsRefreshToken(t *testing.T) {
	setupTestConfig()
	users := newFakeUserRepo()
	expiry := time.Now().Add(time.Hour)
	oauth := &fakeOAuth{
		token: &oauth2.Token{AccessToken: "acc-1", RefreshToken: "ref-1", Expiry: expiry},
		info:  googleapi.UserInfo{ID: "g-1", Email: "owner@example.com", Name: "Owner", Picture: "p.png"},
	}
	svc := NewAuthService(users, oauth)

	authURL, err := svc.GetAuthURL(context.Background())
	if err != nil {
		t.Fatalf("GetAuthURL: %v", err)
	}
	first, err := svc.HandleCallback(context.Background(), authURL.State, "code")
	if err != nil {
		t.Fatalf("first callback: %v", err)
	}
	if first.Token == "" {
		t.Fatal("missing session token")
	}
	claims, err := utils.ParseToken(first.Token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.UserID != first.User.ID || claims.Email != "owner@example.com" {
		t.Errorf("claims = %+v", claims)
	}

	// 第二次回调 Google 不再下发 refresh_token,库里已有的那份必须保留
	oauth.token = &oauth2.Token{AccessToken: "acc-2", Expiry: expiry.Add(time.Hour)}
	authURL, err = svc.GetAuthURL(context.Background())
	if err != nil {
		t.Fatalf("GetAuthURL: %v", err)
	}
	second, err := svc.HandleCallback(context.Background(), authURL.State, "code")
	if err != nil {
		t.Fatalf("second callback: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Errorf("user duplicated: %d vs %d", second.User.ID, first.User.ID)
	}

	stored := users.users[first.User.ID]
	if stored.GoogleAccessToken != "acc-2" {
		t.Errorf("access token = %q, want acc-2", stored.GoogleAccessToken)
	}
	if stored.GoogleRefreshToken != "ref-1" {
		t.Errorf("refresh token = %q, want ref-1 preserved", stored.GoogleRefreshToken)
	}
	if len(users.users) != 1 {
		t.Errorf("user rows = %d, want 1", len(users.users))
	}
}
