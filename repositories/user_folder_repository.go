package repositories

import (
	"context"
	"errors"

	"drivedrop/models"

	"gorm.io/gorm"
)

type GormUserFolderRepository struct {
	db *gorm.DB
}

func NewGormUserFolderRepository(db *gorm.DB) *GormUserFolderRepository {
	return &GormUserFolderRepository{db: db}
}

func (r *GormUserFolderRepository) GetByUser(_ context.Context, tx *gorm.DB, userID uint) (models.UserFolder, error) {
	var folder models.UserFolder
	err := useTx(r.db, tx).Where("user_id = ?", userID).First(&folder).Error
	return folder, err
}

func (r *GormUserFolderRepository) Upsert(ctx context.Context, tx *gorm.DB, folder *models.UserFolder) error {
	db := useTx(r.db, tx)

	var existing models.UserFolder
	err := db.Where("user_id = ?", folder.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(folder).Error
	}
	if err != nil {
		return err
	}

	folder.ID = existing.ID
	return db.Model(&models.UserFolder{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
		"folder_id":   folder.FolderID,
		"folder_name": folder.FolderName,
	}).Error
}
