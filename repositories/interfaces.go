package repositories

import (
	"context"
	"time"

	"drivedrop/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, userID uint) (models.User, error)
	GetByGoogleID(ctx context.Context, tx *gorm.DB, googleID string) (models.User, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, userID uint, updates map[string]interface{}) error
}

type UserFolderRepository interface {
	GetByUser(ctx context.Context, tx *gorm.DB, userID uint) (models.UserFolder, error)
	Upsert(ctx context.Context, tx *gorm.DB, folder *models.UserFolder) error
}

type UploadLinkRepository interface {
	GetActiveByToken(ctx context.Context, tx *gorm.DB, token string) (models.UploadLink, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uint) (models.UploadLink, error)
	GetByID(ctx context.Context, tx *gorm.DB, linkID uint) (models.UploadLink, error)
	Create(ctx context.Context, tx *gorm.DB, link *models.UploadLink) error
	UpdateByID(ctx context.Context, tx *gorm.DB, linkID uint, updates map[string]interface{}) error
	DeactivateByUser(ctx context.Context, tx *gorm.DB, userID uint) error
}

type TempLinkRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *models.TempLink) error
	GetActiveByToken(ctx context.Context, tx *gorm.DB, token string) (models.TempLink, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]models.TempLink, error)
	DeactivateByTokenAndUser(ctx context.Context, tx *gorm.DB, token string, userID uint) error
}

type TransferRepository interface {
	Create(ctx context.Context, tx *gorm.DB, transfer *models.Transfer) error
	GetByTransferID(ctx context.Context, tx *gorm.DB, transferID string) (models.Transfer, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, limit int) ([]models.Transfer, error)
}

type PendingUploadRepository interface {
	Create(ctx context.Context, tx *gorm.DB, upload *models.PendingUpload) error
	ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]models.PendingUpload, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
}

// StagingRepository 暂存对象存储:按 {pendingID}/{fileName} 存取原始字节。
type StagingRepository interface {
	Put(ctx context.Context, pendingID uint, fileName string, content []byte, expire time.Duration) error
	Get(ctx context.Context, pendingID uint, fileName string) ([]byte, error)
	Delete(ctx context.Context, pendingID uint, fileName string) error
}

type Container struct {
	TxManager      TxManager
	Users          UserRepository
	UserFolders    UserFolderRepository
	UploadLinks    UploadLinkRepository
	TempLinks      TempLinkRepository
	Transfers      TransferRepository
	PendingUploads PendingUploadRepository
	Staging        StagingRepository
}
