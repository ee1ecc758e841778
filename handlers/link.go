package handlers

import (
	"drivedrop/services"
	"drivedrop/utils"

	"github.com/gin-gonic/gin"
)

// CreateUploadLink 创建或重新激活用户的永久上传链接
func CreateUploadLink(c *gin.Context) {
	userID := c.GetUint("user_id")

	out, err := getServices().Link.CreateOrGetUploadLink(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

// GetUserUploadLink 返回当前用户的上传链接(含停用状态,供控制台展示)
func GetUserUploadLink(c *gin.Context) {
	userID := c.GetUint("user_id")

	link, err := getServices().Link.GetUserUploadLink(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, link)
}

// DeactivateUploadLink 停用上传链接,记录保留
func DeactivateUploadLink(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := getServices().Link.DeactivateUploadLink(c.Request.Context(), userID); respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "上传链接已停用", nil)
}

// ResolveUploadLink 匿名上传页解析公开令牌,只暴露目标文件夹名。
// 永久链接和限时链接共用同一个令牌路径,先按永久查,查不到再按限时查。
func ResolveUploadLink(c *gin.Context) {
	token := c.Param("token")
	svc := getServices().Link

	link, err := svc.GetUploadLink(c.Request.Context(), token)
	if err == nil {
		utils.Success(c, gin.H{
			"folder_name": link.FolderName,
			"link_type":   "permanent",
		})
		return
	}
	if !services.IsCode(err, services.CodeNotFound) {
		respondServiceError(c, err)
		return
	}

	tempLink, tempErr := svc.GetTempLink(c.Request.Context(), token)
	if respondServiceError(c, tempErr) {
		return
	}
	utils.Success(c, gin.H{
		"folder_name": tempLink.FolderName,
		"link_type":   "temporary",
		"expires_at":  tempLink.ExpiresAt,
	})
}

// CreateTempLink 创建 24 小时限时上传链接
func CreateTempLink(c *gin.Context) {
	userID := c.GetUint("user_id")

	out, err := getServices().Link.CreateTempLink(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func ListTempLinks(c *gin.Context) {
	userID := c.GetUint("user_id")

	links, err := getServices().Link.ListTempLinks(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"links": links})
}

func DeactivateTempLink(c *gin.Context) {
	userID := c.GetUint("user_id")
	token := c.Param("token")

	if err := getServices().Link.DeactivateTempLink(c.Request.Context(), userID, token); respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "限时链接已停用", nil)
}
