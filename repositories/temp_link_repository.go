package repositories

import (
	"context"

	"drivedrop/models"

	"gorm.io/gorm"
)

type GormTempLinkRepository struct {
	db *gorm.DB
}

func NewGormTempLinkRepository(db *gorm.DB) *GormTempLinkRepository {
	return &GormTempLinkRepository{db: db}
}

func (r *GormTempLinkRepository) Create(_ context.Context, tx *gorm.DB, link *models.TempLink) error {
	return useTx(r.db, tx).Create(link).Error
}

func (r *GormTempLinkRepository) GetActiveByToken(_ context.Context, tx *gorm.DB, token string) (models.TempLink, error) {
	var link models.TempLink
	err := useTx(r.db, tx).Where("token = ? AND is_active = ?", token, true).First(&link).Error
	return link, err
}

func (r *GormTempLinkRepository) ListByUser(_ context.Context, tx *gorm.DB, userID uint) ([]models.TempLink, error) {
	var links []models.TempLink
	err := useTx(r.db, tx).Where("user_id = ?", userID).Order("created_at DESC").Find(&links).Error
	return links, err
}

func (r *GormTempLinkRepository) DeactivateByTokenAndUser(_ context.Context, tx *gorm.DB, token string, userID uint) error {
	return useTx(r.db, tx).Model(&models.TempLink{}).
		Where("token = ? AND user_id = ?", token, userID).
		Update("is_active", false).Error
}
