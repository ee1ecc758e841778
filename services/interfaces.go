package services

import (
	"context"

	"drivedrop/googleapi"

	"golang.org/x/oauth2"
)

// Google 侧的外部依赖以接口注入,便于在测试里替换。
// 实现位于 googleapi 包。

type TokenExchanger interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (googleapi.TokenResponse, error)
}

type DriveAPI interface {
	UploadMultipart(ctx context.Context, accessToken string, in googleapi.UploadInput) (string, error)
	ListFolders(ctx context.Context, accessToken string) ([]googleapi.Folder, error)
}

type MailSender interface {
	CheckSendCapability(ctx context.Context, accessToken string) error
	SendMessage(ctx context.Context, accessToken, to, subject, htmlBody string) error
}

type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUserInfo(ctx context.Context, accessToken string) (googleapi.UserInfo, error)
}

// GoogleClients 汇总 services 层用到的全部 Google 客户端。
type GoogleClients struct {
	OAuth OAuthProvider
	Token TokenExchanger
	Drive DriveAPI
	Mail  MailSender
}
