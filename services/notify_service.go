package services

import (
	"context"
	"fmt"
	"time"

	"drivedrop/config"
	"drivedrop/logger"
)

type NotifyInput struct {
	UserEmail   string
	FileName    string
	FileSize    int64
	FolderName  string
	UploadTime  time.Time
	AccessToken string
}

// NotifyResult 始终以返回值携带结果而不是 error:通知失败对投递流水线
// 而言是非致命的,绝不回滚已完成的传输。
type NotifyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type NotifyService interface {
	Notify(ctx context.Context, in NotifyInput) NotifyResult
}

type notifyService struct {
	mail MailSender
}

func NewNotifyService(mail MailSender) NotifyService {
	return &notifyService{mail: mail}
}

// Notify 给链接所有者发一封上传完成邮件。凭证缺失或不具备发信能力时
// 降级为记日志的空操作。
func (s *notifyService) Notify(ctx context.Context, in NotifyInput) NotifyResult {
	if !config.AppConfig.Notification.Enabled {
		logger.Debugf("notification disabled, skip mail to %s for %s", in.UserEmail, in.FileName)
		return NotifyResult{Success: false, Error: "notifications disabled"}
	}

	if in.AccessToken == "" {
		logger.Infof("no access token for notification, would have mailed %s about %s (%s, folder %s)",
			in.UserEmail, in.FileName, formatFileSize(in.FileSize), in.FolderName)
		return NotifyResult{Success: false, Error: "no access token available for sending mail"}
	}

	// 发信前先探测 gmail.send 能力,权限不足时不阻塞流水线
	if err := s.mail.CheckSendCapability(ctx, in.AccessToken); err != nil {
		logger.Errorf("gmail capability check failed for %s: %v", in.UserEmail, err)
		return NotifyResult{Success: false, Error: "access token lacks mail permission, re-authentication required"}
	}

	subject := "🎥 New Video Uploaded: " + in.FileName
	body := buildNotificationBody(in)

	if err := s.mail.SendMessage(ctx, in.AccessToken, in.UserEmail, subject, body); err != nil {
		logger.Errorf("send notification to %s failed: %v", in.UserEmail, err)
		return NotifyResult{Success: false, Error: err.Error()}
	}

	logger.Infof("notification sent to %s for %s", in.UserEmail, in.FileName)
	return NotifyResult{Success: true}
}

func buildNotificationBody(in NotifyInput) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; text-align: center;">🎥 Video Upload Complete!</h1>
  <div style="background-color: #e8f5e8; padding: 20px; border-radius: 8px;">
    <h2 style="color: #2d5a2d; margin-top: 0;">Upload Details</h2>
    <p><strong>File Name:</strong> %s</p>
    <p><strong>File Size:</strong> %s</p>
    <p><strong>Folder:</strong> %s</p>
    <p><strong>Upload Time:</strong> %s</p>
  </div>
  <p style="color: #666; font-size: 14px; text-align: center; margin-top: 30px;">Your video has been successfully uploaded and is now available in your drive.</p>
</div>`,
		in.FileName, formatFileSize(in.FileSize), in.FolderName, in.UploadTime.Format("2006-01-02 15:04:05"))
}

func formatFileSize(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
}
