package models

import "time"

// UploadLink 永久上传链接。每个用户最多持有一条记录(user_id 唯一索引),
// 重新创建链接时原地更新并重新激活,不做物理删除。
type UploadLink struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	UploadToken        string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"upload_token"`
	FolderID           string    `gorm:"type:varchar(128);not null" json:"folder_id"`
	FolderName         string    `gorm:"type:varchar(255);not null" json:"folder_name"`
	GoogleAccessToken  string    `gorm:"type:text" json:"-"`
	GoogleRefreshToken string    `gorm:"type:text" json:"-"`
	TokenExpiresAt     time.Time `json:"token_expires_at"`
	IsActive           bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
