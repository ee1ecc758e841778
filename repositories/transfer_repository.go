package repositories

import (
	"context"

	"drivedrop/models"

	"gorm.io/gorm"
)

type GormTransferRepository struct {
	db *gorm.DB
}

func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

func (r *GormTransferRepository) Create(_ context.Context, tx *gorm.DB, transfer *models.Transfer) error {
	return useTx(r.db, tx).Create(transfer).Error
}

func (r *GormTransferRepository) GetByTransferID(_ context.Context, tx *gorm.DB, transferID string) (models.Transfer, error) {
	var transfer models.Transfer
	err := useTx(r.db, tx).Where("transfer_id = ?", transferID).First(&transfer).Error
	return transfer, err
}

func (r *GormTransferRepository) UpdateByID(_ context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Transfer{}).Where("id = ?", id).Updates(updates).Error
}

func (r *GormTransferRepository) ListByUser(_ context.Context, tx *gorm.DB, userID uint, limit int) ([]models.Transfer, error) {
	var transfers []models.Transfer
	q := useTx(r.db, tx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&transfers).Error
	return transfers, err
}
