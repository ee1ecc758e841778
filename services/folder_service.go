package services

import (
	"context"
	"errors"

	"drivedrop/googleapi"
	"drivedrop/models"
	"drivedrop/repositories"

	"gorm.io/gorm"
)

type FolderService interface {
	ListDriveFolders(ctx context.Context, userID uint) ([]googleapi.Folder, error)
	SaveSelectedFolder(ctx context.Context, userID uint, folderID, folderName string) error
	GetSelectedFolder(ctx context.Context, userID uint) (models.UserFolder, error)
}

type folderService struct {
	users   repositories.UserRepository
	folders repositories.UserFolderRepository
	tokens  TokenService
	drive   DriveAPI
}

func NewFolderService(
	users repositories.UserRepository,
	folders repositories.UserFolderRepository,
	tokens TokenService,
	drive DriveAPI,
) FolderService {
	return &folderService{users: users, folders: folders, tokens: tokens, drive: drive}
}

// ListDriveFolders 用所有者自己的凭证列出其网盘文件夹,供选择目标目录。
func (s *folderService) ListDriveFolders(ctx context.Context, userID uint) ([]googleapi.Folder, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, newInternal("查询用户失败", err)
	}

	accessToken, err := s.tokens.EnsureValidUserToken(ctx, user)
	if err != nil {
		return nil, err
	}

	folders, err := s.drive.ListFolders(ctx, accessToken)
	if err != nil {
		if googleapi.IsAuthError(err) {
			return nil, newReauthRequired("Google 授权已失效,请重新登录", err)
		}
		return nil, newDeliveryFailed("获取网盘文件夹列表失败", err)
	}
	return folders, nil
}

func (s *folderService) SaveSelectedFolder(ctx context.Context, userID uint, folderID, folderName string) error {
	if folderID == "" || folderName == "" {
		return newInvalidInput("缺少文件夹信息")
	}

	folder := models.UserFolder{
		UserID:     userID,
		FolderID:   folderID,
		FolderName: folderName,
	}
	if err := s.folders.Upsert(ctx, nil, &folder); err != nil {
		return newInternal("保存目标文件夹失败", err)
	}
	return nil
}

func (s *folderService) GetSelectedFolder(ctx context.Context, userID uint) (models.UserFolder, error) {
	folder, err := s.folders.GetByUser(ctx, nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserFolder{}, newNotFound("尚未选择目标文件夹")
	}
	if err != nil {
		return models.UserFolder{}, newInternal("查询目标文件夹失败", err)
	}
	return folder, nil
}
