package services

import (
	"context"
	"errors"
	"time"

	"drivedrop/config"
	"drivedrop/logger"
	"drivedrop/models"
	"drivedrop/repositories"

	"drivedrop/googleapi"
)

// TokenStatus 描述一条委托凭证的有效性,由过期时间推导,不落库。
type TokenStatus struct {
	IsValid         bool
	ExpiresAt       time.Time
	TimeUntilExpiry time.Duration
	NeedsRefresh    bool
}

type RefreshOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type TokenService interface {
	CheckStatus(expiresAt time.Time) TokenStatus
	EnsureValidLinkToken(ctx context.Context, link models.UploadLink) (string, error)
	EnsureValidUserToken(ctx context.Context, user models.User) (string, error)
	RefreshForLink(ctx context.Context, refreshToken string, linkID uint) (RefreshOutput, error)
}

type tokenService struct {
	links     repositories.UploadLinkRepository
	users     repositories.UserRepository
	exchanger TokenExchanger

	// nowFunc 便于测试控制时钟
	nowFunc func() time.Time
}

func NewTokenService(links repositories.UploadLinkRepository, users repositories.UserRepository, exchanger TokenExchanger) TokenService {
	return &tokenService{
		links:     links,
		users:     users,
		exchanger: exchanger,
		nowFunc:   time.Now,
	}
}

func refreshBuffer() time.Duration {
	return time.Duration(config.AppConfig.Link.RefreshBufferMin) * time.Minute
}

// CheckStatus 计算凭证状态。距过期不足缓冲窗口(含恰好等于)即视为需要刷新,
// 避免凭证在一次传输中途失效。
func (s *tokenService) CheckStatus(expiresAt time.Time) TokenStatus {
	now := s.nowFunc()

	if expiresAt.IsZero() {
		return TokenStatus{IsValid: false, NeedsRefresh: true}
	}

	until := expiresAt.Sub(now)
	return TokenStatus{
		IsValid:         until > 0,
		ExpiresAt:       expiresAt,
		TimeUntilExpiry: until,
		NeedsRefresh:    until <= refreshBuffer(),
	}
}

// EnsureValidLinkToken 返回链接当前可用的访问令牌。凭证仍在缓冲窗口之外时
// 直接返回(快路径,无网络调用);否则用刷新凭证换新令牌,先落库再返回。
// 并发刷新不加锁:两次刷新都会在提供方成功,后写者覆盖,属接受的竞态。
func (s *tokenService) EnsureValidLinkToken(ctx context.Context, link models.UploadLink) (string, error) {
	status := s.CheckStatus(link.TokenExpiresAt)
	if !status.NeedsRefresh {
		return link.GoogleAccessToken, nil
	}

	if link.GoogleRefreshToken == "" {
		// 没有刷新凭证属终态,只有用户重新授权才能恢复
		return "", newReauthRequired("上传链接缺少刷新凭证,请重新创建链接", nil)
	}

	out, err := s.refreshAndPersist(ctx, link.GoogleRefreshToken, link.ID)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// EnsureValidUserToken 用户自身凭证的同款逻辑,给文件夹选择等
// 所有者操作使用。
func (s *tokenService) EnsureValidUserToken(ctx context.Context, user models.User) (string, error) {
	status := s.CheckStatus(user.TokenExpiresAt)
	if !status.NeedsRefresh {
		return user.GoogleAccessToken, nil
	}

	if user.GoogleRefreshToken == "" {
		return "", newReauthRequired("Google 授权已失效,请重新登录", nil)
	}

	token, err := s.exchanger.RefreshAccessToken(ctx, user.GoogleRefreshToken)
	if err != nil {
		return "", classifyRefreshError(err)
	}

	expiresAt := s.nowFunc().Add(time.Duration(token.ExpiresIn) * time.Second)
	if err := s.users.UpdateByID(ctx, nil, user.ID, map[string]interface{}{
		"google_access_token": token.AccessToken,
		"token_expires_at":    expiresAt,
	}); err != nil {
		return "", newInternal("保存刷新后的凭证失败", err)
	}
	return token.AccessToken, nil
}

// RefreshForLink 是 /api/tokens/refresh 的底层实现:直接执行一次交换并
// 按链接 id 落库。
func (s *tokenService) RefreshForLink(ctx context.Context, refreshToken string, linkID uint) (RefreshOutput, error) {
	return s.refreshAndPersist(ctx, refreshToken, linkID)
}

func (s *tokenService) refreshAndPersist(ctx context.Context, refreshToken string, linkID uint) (RefreshOutput, error) {
	token, err := s.exchanger.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		return RefreshOutput{}, classifyRefreshError(err)
	}

	// 有效期从交换时刻起算,不是旧的过期时间
	expiresAt := s.nowFunc().Add(time.Duration(token.ExpiresIn) * time.Second)

	// 必须先持久化再返回新令牌:交换后落库前崩溃只会让下次调用
	// 多刷新一轮,自愈且无额外代价
	if err := s.links.UpdateByID(ctx, nil, linkID, map[string]interface{}{
		"google_access_token": token.AccessToken,
		"token_expires_at":    expiresAt,
	}); err != nil {
		return RefreshOutput{}, newInternal("保存刷新后的凭证失败", err)
	}

	logger.Debugf("link %d token refreshed, expires in %ds", linkID, token.ExpiresIn)
	return RefreshOutput{
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
		ExpiresAt:   expiresAt,
	}, nil
}

// classifyRefreshError 区分提供方拒绝(4xx,刷新凭证被吊销/过期,需要
// 重新授权)和可重试故障。端点 5xx 是提供方自身故障,和网络层错误同样
// 归为传输类,绝不能提示用户重新授权。
func classifyRefreshError(err error) *AppError {
	if googleapi.IsAPIError(err) {
		if errors.Is(err, googleapi.ErrServerError) {
			return newRefreshTransport("凭证服务暂时不可用,请稍后重试", err)
		}
		return newReauthRequired("刷新凭证已失效,请重新授权", err)
	}
	return newRefreshTransport("刷新凭证时网络异常", err)
}
