package services

import (
	"context"
	"errors"
	"time"

	"drivedrop/config"
	"drivedrop/googleapi"
	"drivedrop/logger"
	"drivedrop/models"
	"drivedrop/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FilePayload struct {
	FileName string
	FileSize int64
	FileType string
	Content  []byte
}

type TransferMeta struct {
	FileName string
	FileSize int64
	FileType string
}

type DeliverOutput struct {
	TransferID  string `json:"transfer_id"`
	DriveFileID string `json:"drive_file_id"`
}

type BatchOutput struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

type DeliveryService interface {
	Deliver(ctx context.Context, uploadToken string, payload FilePayload) (DeliverOutput, error)
	CreateTransferRecord(ctx context.Context, uploadToken string, meta TransferMeta) (string, error)
	CompleteTransfer(ctx context.Context, transferID, driveFileID string) error
	ListTransfers(ctx context.Context, userID uint, limit int) ([]models.Transfer, error)
	StagePendingUpload(ctx context.Context, uploadToken string, payload FilePayload) (uint, error)
	ProcessPendingUploads(ctx context.Context, userID uint) (BatchOutput, error)
}

type deliveryService struct {
	users     repositories.UserRepository
	links     repositories.UploadLinkRepository
	transfers repositories.TransferRepository
	pending   repositories.PendingUploadRepository
	staging   repositories.StagingRepository
	linkSvc   LinkService
	tokenSvc  TokenService
	notifySvc NotifyService
	drive     DriveAPI

	nowFunc func() time.Time
}

func NewDeliveryService(
	users repositories.UserRepository,
	links repositories.UploadLinkRepository,
	transfers repositories.TransferRepository,
	pending repositories.PendingUploadRepository,
	staging repositories.StagingRepository,
	linkSvc LinkService,
	tokenSvc TokenService,
	notifySvc NotifyService,
	drive DriveAPI,
) DeliveryService {
	return &deliveryService{
		users:     users,
		links:     links,
		transfers: transfers,
		pending:   pending,
		staging:   staging,
		linkSvc:   linkSvc,
		tokenSvc:  tokenSvc,
		notifySvc: notifySvc,
		drive:     drive,
		nowFunc:   time.Now,
	}
}

func validatePayload(payload FilePayload) error {
	if payload.FileName == "" || len(payload.Content) == 0 {
		return newInvalidInput("缺少文件内容或文件名")
	}
	if payload.FileSize > config.AppConfig.Upload.MaxFileSize {
		return newInvalidInput("文件大小超出限制")
	}
	return nil
}

// Deliver 完整的匿名投递流程:先落一条 processing 记录,再保证凭证有效,
// 然后单次请求上传到目标网盘,最后把记录推进到终态。任何远程调用之前
// 记录必须已经存在,中途崩溃留下的是可见的 processing 而不是静默丢失。
func (s *deliveryService) Deliver(ctx context.Context, uploadToken string, payload FilePayload) (DeliverOutput, error) {
	if err := validatePayload(payload); err != nil {
		return DeliverOutput{}, err
	}

	link, err := s.linkSvc.GetUploadLink(ctx, uploadToken)
	if err != nil {
		return DeliverOutput{}, err
	}

	transfer := models.Transfer{
		TransferID: uuid.New().String(),
		LinkID:     link.ID,
		UserID:     link.UserID,
		FileName:   payload.FileName,
		FileSize:   payload.FileSize,
		FileType:   payload.FileType,
		Status:     models.TransferStatusProcessing,
	}
	if err := s.transfers.Create(ctx, nil, &transfer); err != nil {
		return DeliverOutput{}, newInternal("创建转移记录失败", err)
	}

	driveFileID, err := s.uploadForLink(ctx, link, payload)
	if err != nil {
		// 记录创建之后的任何失败都必须先把记录置为 failed 再返回
		s.markFailed(ctx, transfer.ID)
		return DeliverOutput{TransferID: transfer.TransferID}, err
	}

	if err := s.transfers.UpdateByID(ctx, nil, transfer.ID, map[string]interface{}{
		"status":        models.TransferStatusCompleted,
		"drive_file_id": driveFileID,
	}); err != nil {
		return DeliverOutput{TransferID: transfer.TransferID}, newInternal("更新转移记录失败", err)
	}

	s.notifyOwner(ctx, link, payload.FileName, payload.FileSize)

	return DeliverOutput{TransferID: transfer.TransferID, DriveFileID: driveFileID}, nil
}

// uploadForLink 保证凭证有效后执行一次网盘上传,错误按授权/非授权分类。
func (s *deliveryService) uploadForLink(ctx context.Context, link models.UploadLink, payload FilePayload) (string, error) {
	accessToken, err := s.tokenSvc.EnsureValidLinkToken(ctx, link)
	if err != nil {
		return "", err
	}

	driveFileID, err := s.drive.UploadMultipart(ctx, accessToken, googleapi.UploadInput{
		FileName: payload.FileName,
		MIMEType: payload.FileType,
		FolderID: link.FolderID,
		Content:  payload.Content,
	})
	if err != nil {
		if googleapi.IsAuthError(err) {
			return "", newReauthRequired("网盘拒绝了当前凭证,请重新创建上传链接", err)
		}
		return "", newDeliveryFailed("上传到网盘失败", err)
	}
	return driveFileID, nil
}

func (s *deliveryService) markFailed(ctx context.Context, id uint) {
	if err := s.transfers.UpdateByID(ctx, nil, id, map[string]interface{}{
		"status": models.TransferStatusFailed,
	}); err != nil {
		logger.Errorf("mark transfer %d failed: %v", id, err)
	}
}

// notifyOwner 尽力而为的完成通知,任何失败只记日志,不影响已完成状态。
func (s *deliveryService) notifyOwner(ctx context.Context, link models.UploadLink, fileName string, fileSize int64) {
	user, err := s.users.GetByID(ctx, nil, link.UserID)
	if err != nil {
		logger.Errorf("load owner %d for notification: %v", link.UserID, err)
		return
	}

	result := s.notifySvc.Notify(ctx, NotifyInput{
		UserEmail:   user.Email,
		FileName:    fileName,
		FileSize:    fileSize,
		FolderName:  link.FolderName,
		UploadTime:  s.nowFunc(),
		AccessToken: link.GoogleAccessToken,
	})
	if !result.Success {
		logger.Infof("notification for %s skipped or failed: %s", fileName, result.Error)
	}
}

// CreateTransferRecord 客户端驱动流程的前半段:校验链接后只落记录。
func (s *deliveryService) CreateTransferRecord(ctx context.Context, uploadToken string, meta TransferMeta) (string, error) {
	if meta.FileName == "" || meta.FileSize <= 0 || meta.FileType == "" {
		return "", newInvalidInput("缺少文件信息")
	}

	link, err := s.linkSvc.GetUploadLink(ctx, uploadToken)
	if err != nil {
		return "", err
	}

	transfer := models.Transfer{
		TransferID: uuid.New().String(),
		LinkID:     link.ID,
		UserID:     link.UserID,
		FileName:   meta.FileName,
		FileSize:   meta.FileSize,
		FileType:   meta.FileType,
		Status:     models.TransferStatusProcessing,
	}
	if err := s.transfers.Create(ctx, nil, &transfer); err != nil {
		return "", newInternal("创建转移记录失败", err)
	}
	return transfer.TransferID, nil
}

// CompleteTransfer 客户端驱动流程的后半段:记录推进到 completed 并通知。
// 只允许从 processing 进入终态,终态不再变化。
func (s *deliveryService) CompleteTransfer(ctx context.Context, transferID, driveFileID string) error {
	if transferID == "" || driveFileID == "" {
		return newInvalidInput("缺少转移记录或文件标识")
	}

	transfer, err := s.transfers.GetByTransferID(ctx, nil, transferID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newNotFound("转移记录不存在")
	}
	if err != nil {
		return newInternal("查询转移记录失败", err)
	}

	if transfer.Status != models.TransferStatusProcessing {
		return newInvalidInput("转移记录已进入终态")
	}

	if err := s.transfers.UpdateByID(ctx, nil, transfer.ID, map[string]interface{}{
		"status":        models.TransferStatusCompleted,
		"drive_file_id": driveFileID,
	}); err != nil {
		return newInternal("更新转移记录失败", err)
	}

	link, err := s.links.GetByID(ctx, nil, transfer.LinkID)
	if err != nil {
		logger.Errorf("load link %d for notification: %v", transfer.LinkID, err)
		return nil
	}
	s.notifyOwner(ctx, link, transfer.FileName, transfer.FileSize)
	return nil
}

func (s *deliveryService) ListTransfers(ctx context.Context, userID uint, limit int) ([]models.Transfer, error) {
	transfers, err := s.transfers.ListByUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, newInternal("查询转移记录失败", err)
	}
	return transfers, nil
}

// StagePendingUpload 暂存兜底:文件字节进 Redis,落一条 pending 记录,
// 之后由 ProcessPendingUploads 批量补投递。
func (s *deliveryService) StagePendingUpload(ctx context.Context, uploadToken string, payload FilePayload) (uint, error) {
	if err := validatePayload(payload); err != nil {
		return 0, err
	}

	link, err := s.linkSvc.GetUploadLink(ctx, uploadToken)
	if err != nil {
		return 0, err
	}

	upload := models.PendingUpload{
		UserID:   link.UserID,
		FileName: payload.FileName,
		FileSize: payload.FileSize,
		FileType: payload.FileType,
		Status:   models.PendingStatusPending,
	}
	if err := s.pending.Create(ctx, nil, &upload); err != nil {
		return 0, newInternal("创建暂存记录失败", err)
	}

	expire := time.Duration(config.AppConfig.Redis.StagingExpire) * time.Second
	if err := s.staging.Put(ctx, upload.ID, payload.FileName, payload.Content, expire); err != nil {
		s.markPendingFailed(ctx, upload.ID)
		return 0, newInternal("写入暂存存储失败", err)
	}
	return upload.ID, nil
}

// ProcessPendingUploads 扫描用户全部 pending 记录逐条补投递。
// 单条失败不阻塞其余记录,状态逐条更新,没有批量事务;
// 记录间无依赖,顺序处理即可。
func (s *deliveryService) ProcessPendingUploads(ctx context.Context, userID uint) (BatchOutput, error) {
	link, err := s.links.GetByUser(ctx, nil, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !link.IsActive) {
		return BatchOutput{}, newReauthRequired("没有可用的上传链接凭证,请先重新创建链接", nil)
	}
	if err != nil {
		return BatchOutput{}, newInternal("查询上传链接失败", err)
	}

	uploads, err := s.pending.ListPendingByUser(ctx, nil, userID)
	if err != nil {
		return BatchOutput{}, newInternal("查询暂存记录失败", err)
	}
	if len(uploads) == 0 {
		return BatchOutput{}, nil
	}

	var out BatchOutput
	for _, upload := range uploads {
		if err := s.processPendingOne(ctx, link, upload); err != nil {
			logger.Errorf("process pending upload %d: %v", upload.ID, err)
			s.markPendingFailed(ctx, upload.ID)
			out.Failed++
			continue
		}
		out.Processed++
	}
	return out, nil
}

func (s *deliveryService) processPendingOne(ctx context.Context, link models.UploadLink, upload models.PendingUpload) error {
	if err := s.pending.UpdateByID(ctx, nil, upload.ID, map[string]interface{}{
		"status": models.PendingStatusProcessing,
	}); err != nil {
		return err
	}

	content, err := s.staging.Get(ctx, upload.ID, upload.FileName)
	if err != nil {
		return err
	}

	if _, err := s.uploadForLink(ctx, link, FilePayload{
		FileName: upload.FileName,
		FileSize: upload.FileSize,
		FileType: upload.FileType,
		Content:  content,
	}); err != nil {
		return err
	}

	if err := s.pending.UpdateByID(ctx, nil, upload.ID, map[string]interface{}{
		"status": models.PendingStatusCompleted,
	}); err != nil {
		return err
	}

	if err := s.staging.Delete(ctx, upload.ID, upload.FileName); err != nil {
		// 暂存清理失败不影响记录终态,键会随过期时间自行消失
		logger.Errorf("delete staged object %d/%s: %v", upload.ID, upload.FileName, err)
	}
	return nil
}

func (s *deliveryService) markPendingFailed(ctx context.Context, id uint) {
	if err := s.pending.UpdateByID(ctx, nil, id, map[string]interface{}{
		"status": models.PendingStatusFailed,
	}); err != nil {
		logger.Errorf("mark pending upload %d failed: %v", id, err)
	}
}
