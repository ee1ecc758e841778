package models

import "time"

// TempLink 限时上传链接,创建时固定 24 小时有效期,不会延长。
type TempLink struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	Token             string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"token"`
	FolderID          string    `gorm:"type:varchar(128);not null" json:"folder_id"`
	FolderName        string    `gorm:"type:varchar(255);not null" json:"folder_name"`
	GoogleAccessToken string    `gorm:"type:text" json:"-"`
	ExpiresAt         time.Time `gorm:"not null;index" json:"expires_at"`
	IsActive          bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}
