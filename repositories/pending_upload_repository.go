package repositories

import (
	"context"

	"drivedrop/models"

	"gorm.io/gorm"
)

type GormPendingUploadRepository struct {
	db *gorm.DB
}

func NewGormPendingUploadRepository(db *gorm.DB) *GormPendingUploadRepository {
	return &GormPendingUploadRepository{db: db}
}

func (r *GormPendingUploadRepository) Create(_ context.Context, tx *gorm.DB, upload *models.PendingUpload) error {
	return useTx(r.db, tx).Create(upload).Error
}

func (r *GormPendingUploadRepository) ListPendingByUser(_ context.Context, tx *gorm.DB, userID uint) ([]models.PendingUpload, error) {
	var uploads []models.PendingUpload
	err := useTx(r.db, tx).
		Where("user_id = ? AND status = ?", userID, models.PendingStatusPending).
		Order("created_at ASC").
		Find(&uploads).Error
	return uploads, err
}

func (r *GormPendingUploadRepository) UpdateByID(_ context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.PendingUpload{}).Where("id = ?", id).Updates(updates).Error
}
