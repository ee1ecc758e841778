package models

import "time"

// UserFolder 用户选定的网盘目标文件夹,每个用户一条。
type UserFolder struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FolderID   string    `gorm:"type:varchar(128);not null" json:"folder_id"`
	FolderName string    `gorm:"type:varchar(255);not null" json:"folder_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
