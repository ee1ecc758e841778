package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drivedrop/config"
	"drivedrop/models"
	"drivedrop/repositories"
	"drivedrop/utils"

	"gorm.io/gorm"
)

type LinkOutput struct {
	UploadToken string `json:"upload_token"`
	UploadURL   string `json:"upload_url"`
	FolderName  string `json:"folder_name"`
}

type TempLinkOutput struct {
	Token     string    `json:"token"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LinkService interface {
	CreateOrGetUploadLink(ctx context.Context, userID uint) (LinkOutput, error)
	GetUploadLink(ctx context.Context, token string) (models.UploadLink, error)
	GetUploadLinkWithValidToken(ctx context.Context, token string) (models.UploadLink, error)
	GetUserUploadLink(ctx context.Context, userID uint) (models.UploadLink, error)
	DeactivateUploadLink(ctx context.Context, userID uint) error
	CreateTempLink(ctx context.Context, userID uint) (TempLinkOutput, error)
	GetTempLink(ctx context.Context, token string) (models.TempLink, error)
	ListTempLinks(ctx context.Context, userID uint) ([]models.TempLink, error)
	DeactivateTempLink(ctx context.Context, userID uint, token string) error
}

type linkService struct {
	txManager repositories.TxManager
	users     repositories.UserRepository
	folders   repositories.UserFolderRepository
	links     repositories.UploadLinkRepository
	tempLinks repositories.TempLinkRepository
	tokens    TokenService

	nowFunc func() time.Time
}

func NewLinkService(
	txManager repositories.TxManager,
	users repositories.UserRepository,
	folders repositories.UserFolderRepository,
	links repositories.UploadLinkRepository,
	tempLinks repositories.TempLinkRepository,
	tokens TokenService,
) LinkService {
	return &linkService{
		txManager: txManager,
		users:     users,
		folders:   folders,
		links:     links,
		tempLinks: tempLinks,
		tokens:    tokens,
		nowFunc:   time.Now,
	}
}

// CreateOrGetUploadLink 创建或更新用户的永久上传链接。每个用户只有一条
// 记录:已存在则原地轮换目标文件夹和凭证并重新激活,不新增。
func (s *linkService) CreateOrGetUploadLink(ctx context.Context, userID uint) (LinkOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return LinkOutput{}, newInternal("查询用户失败", err)
	}

	folder, err := s.folders.GetByUser(ctx, nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LinkOutput{}, newInvalidInput("尚未选择目标文件夹,请先选择一个网盘文件夹")
	}
	if err != nil {
		return LinkOutput{}, newInternal("查询目标文件夹失败", err)
	}

	if user.GoogleAccessToken == "" {
		return LinkOutput{}, newReauthRequired("没有可用的 Google 凭证,请重新登录授权", nil)
	}

	expiresAt := user.TokenExpiresAt
	if expiresAt.IsZero() {
		expiresAt = s.nowFunc().Add(time.Duration(config.AppConfig.Link.DefaultTokenTTLSec) * time.Second)
	}

	// 查改/查建放同一个事务,并发重建不会留下两条记录
	var out LinkOutput
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.links.GetByUser(ctx, tx, userID)
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"folder_id":            folder.FolderID,
				"folder_name":          folder.FolderName,
				"google_access_token":  user.GoogleAccessToken,
				"google_refresh_token": user.GoogleRefreshToken,
				"token_expires_at":     expiresAt,
				"is_active":            true,
			}
			if err := s.links.UpdateByID(ctx, tx, existing.ID, updates); err != nil {
				return newInternal("更新上传链接失败", err)
			}
			out = s.linkOutput(existing.UploadToken, folder.FolderName)
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			link := models.UploadLink{
				UserID:             userID,
				UploadToken:        utils.GenerateUploadToken(config.AppConfig.Link.TokenLength),
				FolderID:           folder.FolderID,
				FolderName:         folder.FolderName,
				GoogleAccessToken:  user.GoogleAccessToken,
				GoogleRefreshToken: user.GoogleRefreshToken,
				TokenExpiresAt:     expiresAt,
				IsActive:           true,
			}
			if err := s.links.Create(ctx, tx, &link); err != nil {
				// 唯一索引冲突在这里浮出,不做重试循环
				return newInternal("创建上传链接失败", err)
			}
			out = s.linkOutput(link.UploadToken, folder.FolderName)
			return nil

		default:
			return newInternal("查询上传链接失败", err)
		}
	})
	if err != nil {
		if _, ok := err.(*AppError); ok {
			return LinkOutput{}, err
		}
		return LinkOutput{}, newInternal("创建上传链接失败", err)
	}
	return out, nil
}

func (s *linkService) linkOutput(token, folderName string) LinkOutput {
	return LinkOutput{
		UploadToken: token,
		UploadURL:   fmt.Sprintf("%s/upload/%s", config.AppConfig.Server.BaseURL, token),
		FolderName:  folderName,
	}
}

// GetUploadLink 按公开令牌解析链接。不存在和已停用返回同一个 NotFound,
// 避免向匿名方泄露链接是否存在过。
func (s *linkService) GetUploadLink(ctx context.Context, token string) (models.UploadLink, error) {
	if token == "" {
		return models.UploadLink{}, newInvalidInput("缺少上传令牌")
	}

	link, err := s.links.GetActiveByToken(ctx, nil, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UploadLink{}, newNotFound("上传链接不存在或已停用")
	}
	if err != nil {
		return models.UploadLink{}, newInternal("查询上传链接失败", err)
	}
	return link, nil
}

// GetUploadLinkWithValidToken 解析链接并保证其访问令牌至少在缓冲窗口内
// 有效,必要时触发刷新。刷新失败以 reauth_required 上抛,调用方可以
// 提示用户重建链接而不是盲目重试。
func (s *linkService) GetUploadLinkWithValidToken(ctx context.Context, token string) (models.UploadLink, error) {
	link, err := s.GetUploadLink(ctx, token)
	if err != nil {
		return models.UploadLink{}, err
	}

	accessToken, err := s.tokens.EnsureValidLinkToken(ctx, link)
	if err != nil {
		return models.UploadLink{}, err
	}

	link.GoogleAccessToken = accessToken
	return link, nil
}

func (s *linkService) GetUserUploadLink(ctx context.Context, userID uint) (models.UploadLink, error) {
	link, err := s.links.GetByUser(ctx, nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UploadLink{}, newNotFound("尚未创建上传链接")
	}
	if err != nil {
		return models.UploadLink{}, newInternal("查询上传链接失败", err)
	}
	return link, nil
}

func (s *linkService) DeactivateUploadLink(ctx context.Context, userID uint) error {
	if err := s.links.DeactivateByUser(ctx, nil, userID); err != nil {
		return newInternal("停用上传链接失败", err)
	}
	return nil
}

// CreateTempLink 创建限时链接:有效期创建时固定,不含刷新凭证,
// 过期后只能重新创建。
func (s *linkService) CreateTempLink(ctx context.Context, userID uint) (TempLinkOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return TempLinkOutput{}, newInternal("查询用户失败", err)
	}

	folder, err := s.folders.GetByUser(ctx, nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TempLinkOutput{}, newInvalidInput("尚未选择目标文件夹,请先选择一个网盘文件夹")
	}
	if err != nil {
		return TempLinkOutput{}, newInternal("查询目标文件夹失败", err)
	}

	if user.GoogleAccessToken == "" {
		return TempLinkOutput{}, newReauthRequired("没有可用的 Google 凭证,请重新登录授权", nil)
	}

	link := models.TempLink{
		UserID:            userID,
		Token:             utils.GenerateUploadToken(config.AppConfig.Link.TokenLength),
		FolderID:          folder.FolderID,
		FolderName:        folder.FolderName,
		GoogleAccessToken: user.GoogleAccessToken,
		ExpiresAt:         s.nowFunc().Add(time.Duration(config.AppConfig.Link.TempExpireHours) * time.Hour),
		IsActive:          true,
	}
	if err := s.tempLinks.Create(ctx, nil, &link); err != nil {
		return TempLinkOutput{}, newInternal("创建限时链接失败", err)
	}

	return TempLinkOutput{
		Token:     link.Token,
		UploadURL: fmt.Sprintf("%s/upload/%s", config.AppConfig.Server.BaseURL, link.Token),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

func (s *linkService) GetTempLink(ctx context.Context, token string) (models.TempLink, error) {
	if token == "" {
		return models.TempLink{}, newInvalidInput("缺少上传令牌")
	}

	link, err := s.tempLinks.GetActiveByToken(ctx, nil, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TempLink{}, newNotFound("上传链接不存在或已停用")
	}
	if err != nil {
		return models.TempLink{}, newInternal("查询限时链接失败", err)
	}

	if s.nowFunc().After(link.ExpiresAt) {
		return models.TempLink{}, newExpired("上传链接已过期,请联系所有者重新创建")
	}
	return link, nil
}

func (s *linkService) ListTempLinks(ctx context.Context, userID uint) ([]models.TempLink, error) {
	links, err := s.tempLinks.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, newInternal("查询限时链接失败", err)
	}
	return links, nil
}

func (s *linkService) DeactivateTempLink(ctx context.Context, userID uint, token string) error {
	if token == "" {
		return newInvalidInput("缺少上传令牌")
	}
	if err := s.tempLinks.DeactivateByTokenAndUser(ctx, nil, token, userID); err != nil {
		return newInternal("停用限时链接失败", err)
	}
	return nil
}
