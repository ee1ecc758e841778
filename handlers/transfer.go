package handlers

import (
	"io"
	"net/http"
	"strconv"

	"drivedrop/config"
	"drivedrop/services"
	"drivedrop/utils"

	"github.com/gin-gonic/gin"
)

type CreateTransferRequest struct {
	FileName    string `form:"fileName" json:"fileName" binding:"required"`
	FileSize    int64  `form:"fileSize" json:"fileSize" binding:"required"`
	FileType    string `form:"fileType" json:"fileType" binding:"required"`
	UploadToken string `form:"uploadToken" json:"uploadToken" binding:"required"`
}

type CompleteTransferRequest struct {
	TransferID  string `json:"transferId" binding:"required"`
	DriveFileID string `json:"driveFileId" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
	LinkID       uint   `json:"linkId" binding:"required"`
}

// CreateTransferRecord 客户端直传流程:上传开始前先登记一条 processing 记录
func CreateTransferRecord(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	transferID, err := getServices().Delivery.CreateTransferRecord(c.Request.Context(), req.UploadToken, services.TransferMeta{
		FileName: req.FileName,
		FileSize: req.FileSize,
		FileType: req.FileType,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"transfer_id": transferID})
}

// CompleteTransfer 客户端直传完成后把记录推进到终态
func CompleteTransfer(c *gin.Context) {
	var req CompleteTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := getServices().Delivery.CompleteTransfer(c.Request.Context(), req.TransferID, req.DriveFileID); respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "转移记录已完成", nil)
}

// RefreshToken 按链接 id 刷新委托凭证并落库
func RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	out, err := getServices().Token.RefreshForLink(c.Request.Context(), req.RefreshToken, req.LinkID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func readUploadPayload(c *gin.Context) (services.FilePayload, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "获取上传文件失败")
		return services.FilePayload{}, false
	}
	defer file.Close()

	if header.Size > config.AppConfig.Upload.MaxFileSize {
		utils.Error(c, http.StatusBadRequest, "文件大小超出限制")
		return services.FilePayload{}, false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "读取上传文件失败")
		return services.FilePayload{}, false
	}

	return services.FilePayload{
		FileName: header.Filename,
		FileSize: header.Size,
		FileType: header.Header.Get("Content-Type"),
		Content:  content,
	}, true
}

// DeliverUpload 匿名直投:收文件、登记记录、上传网盘、通知所有者
func DeliverUpload(c *gin.Context) {
	uploadToken := c.PostForm("uploadToken")
	if uploadToken == "" {
		utils.Error(c, http.StatusBadRequest, "缺少上传令牌")
		return
	}

	payload, ok := readUploadPayload(c)
	if !ok {
		return
	}

	out, err := getServices().Delivery.Deliver(c.Request.Context(), uploadToken, payload)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

// StageUpload 暂存兜底:文件先进暂存区,之后批量补投递
func StageUpload(c *gin.Context) {
	uploadToken := c.PostForm("uploadToken")
	if uploadToken == "" {
		utils.Error(c, http.StatusBadRequest, "缺少上传令牌")
		return
	}

	payload, ok := readUploadPayload(c)
	if !ok {
		return
	}

	pendingID, err := getServices().Delivery.StagePendingUpload(c.Request.Context(), uploadToken, payload)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"pending_id": pendingID})
}

// ProcessPendingUploads 批量补投递当前用户的暂存上传
func ProcessPendingUploads(c *gin.Context) {
	userID := c.GetUint("user_id")

	out, err := getServices().Delivery.ProcessPendingUploads(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

// ListTransfers 控制台的转移记录列表
func ListTransfers(c *gin.Context) {
	userID := c.GetUint("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	transfers, err := getServices().Delivery.ListTransfers(c.Request.Context(), userID, limit)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"transfers": transfers})
}
