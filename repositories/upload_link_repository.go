package repositories

import (
	"context"

	"drivedrop/models"

	"gorm.io/gorm"
)

type GormUploadLinkRepository struct {
	db *gorm.DB
}

func NewGormUploadLinkRepository(db *gorm.DB) *GormUploadLinkRepository {
	return &GormUploadLinkRepository{db: db}
}

func (r *GormUploadLinkRepository) GetActiveByToken(_ context.Context, tx *gorm.DB, token string) (models.UploadLink, error) {
	var link models.UploadLink
	err := useTx(r.db, tx).Where("upload_token = ? AND is_active = ?", token, true).First(&link).Error
	return link, err
}

func (r *GormUploadLinkRepository) GetByUser(_ context.Context, tx *gorm.DB, userID uint) (models.UploadLink, error) {
	var link models.UploadLink
	err := useTx(r.db, tx).Where("user_id = ?", userID).First(&link).Error
	return link, err
}

func (r *GormUploadLinkRepository) GetByID(_ context.Context, tx *gorm.DB, linkID uint) (models.UploadLink, error) {
	var link models.UploadLink
	err := useTx(r.db, tx).First(&link, linkID).Error
	return link, err
}

func (r *GormUploadLinkRepository) Create(_ context.Context, tx *gorm.DB, link *models.UploadLink) error {
	return useTx(r.db, tx).Create(link).Error
}

func (r *GormUploadLinkRepository) UpdateByID(_ context.Context, tx *gorm.DB, linkID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.UploadLink{}).Where("id = ?", linkID).Updates(updates).Error
}

func (r *GormUploadLinkRepository) DeactivateByUser(_ context.Context, tx *gorm.DB, userID uint) error {
	return useTx(r.db, tx).Model(&models.UploadLink{}).Where("user_id = ?", userID).Update("is_active", false).Error
}
