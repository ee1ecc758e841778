package models

import "time"

const (
	TransferStatusProcessing = "processing"
	TransferStatusCompleted  = "completed"
	TransferStatusFailed     = "failed"
)

// Transfer 单次上传投递记录。投递开始前先落库为 processing,
// 之后只会被更新一次进入终态;失败不复用记录,重试即新建。
type Transfer struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TransferID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"transfer_id"`
	LinkID      uint      `gorm:"not null;index" json:"link_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize    int64     `gorm:"not null" json:"file_size"`
	FileType    string    `gorm:"type:varchar(100)" json:"file_type"`
	Status      string    `gorm:"type:varchar(20);default:processing;index" json:"status"`
	DriveFileID string    `gorm:"type:varchar(128)" json:"drive_file_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
