package services

import (
	"context"
	"errors"
	"sync"

	"drivedrop/models"
	"drivedrop/repositories"
	"drivedrop/utils"

	"gorm.io/gorm"
)

type AuthURLOutput struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type AuthOutput struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type AuthService interface {
	GetAuthURL(ctx context.Context) (AuthURLOutput, error)
	HandleCallback(ctx context.Context, state, code string) (AuthOutput, error)
	GetProfile(ctx context.Context, userID uint) (models.User, error)
}

type authService struct {
	users repositories.UserRepository
	oauth OAuthProvider

	stateMutex sync.Mutex
	stateStore map[string]struct{}
}

func NewAuthService(users repositories.UserRepository, oauth OAuthProvider) AuthService {
	return &authService{
		users:      users,
		oauth:      oauth,
		stateStore: make(map[string]struct{}),
	}
}

func (s *authService) GetAuthURL(_ context.Context) (AuthURLOutput, error) {
	state := utils.GenerateUploadToken(32)

	s.stateMutex.Lock()
	s.stateStore[state] = struct{}{}
	s.stateMutex.Unlock()

	return AuthURLOutput{URL: s.oauth.AuthCodeURL(state), State: state}, nil
}

// HandleCallback 完成授权回调:校验 state、换取委托凭证、按 Google 账号
// 建档或更新,最后签发本服务的会话令牌。Google 只在强制同意时返回
// refresh_token,回调里拿不到时保留库里已有的那份。
func (s *authService) HandleCallback(ctx context.Context, state, code string) (AuthOutput, error) {
	if state == "" || code == "" {
		return AuthOutput{}, newInvalidInput("缺少 state 或 code 参数")
	}

	s.stateMutex.Lock()
	_, known := s.stateStore[state]
	delete(s.stateStore, state)
	s.stateMutex.Unlock()
	if !known {
		return AuthOutput{}, newInvalidInput("state 参数无效")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return AuthOutput{}, newReauthRequired("Google 授权码换取失败", err)
	}

	info, err := s.oauth.FetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return AuthOutput{}, newInternal("获取 Google 账号信息失败", err)
	}

	user, err := s.users.GetByGoogleID(ctx, nil, info.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			GoogleID:           info.ID,
			Email:              info.Email,
			Name:               info.Name,
			Picture:            info.Picture,
			GoogleAccessToken:  token.AccessToken,
			GoogleRefreshToken: token.RefreshToken,
			TokenExpiresAt:     token.Expiry,
		}
		if err := s.users.Create(ctx, nil, &user); err != nil {
			return AuthOutput{}, newInternal("创建用户失败", err)
		}

	case err != nil:
		return AuthOutput{}, newInternal("查询用户失败", err)

	default:
		updates := map[string]interface{}{
			"email":               info.Email,
			"name":                info.Name,
			"picture":             info.Picture,
			"google_access_token": token.AccessToken,
			"token_expires_at":    token.Expiry,
		}
		if token.RefreshToken != "" {
			updates["google_refresh_token"] = token.RefreshToken
		}
		if err := s.users.UpdateByID(ctx, nil, user.ID, updates); err != nil {
			return AuthOutput{}, newInternal("更新用户失败", err)
		}
		user, err = s.users.GetByID(ctx, nil, user.ID)
		if err != nil {
			return AuthOutput{}, newInternal("查询用户失败", err)
		}
	}

	sessionToken, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return AuthOutput{}, newInternal("签发会话令牌失败", err)
	}
	return AuthOutput{Token: sessionToken, User: user}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, newNotFound("用户不存在")
	}
	if err != nil {
		return models.User{}, newInternal("查询用户失败", err)
	}
	return user, nil
}
