package models

import "time"

const (
	PendingStatusPending    = "pending"
	PendingStatusProcessing = "processing"
	PendingStatusCompleted  = "completed"
	PendingStatusFailed     = "failed"
)

// PendingUpload 暂存兜底路径的上传记录:上传瞬间拿不到委托凭证时,
// 文件先进暂存区,之后再批量补投递到目标网盘。
type PendingUpload struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FileName  string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize  int64     `gorm:"not null" json:"file_size"`
	FileType  string    `gorm:"type:varchar(100)" json:"file_type"`
	Status    string    `gorm:"type:varchar(20);default:pending;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
