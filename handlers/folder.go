package handlers

import (
	"net/http"

	"drivedrop/utils"

	"github.com/gin-gonic/gin"
)

type SelectFolderRequest struct {
	FolderID   string `json:"folder_id" binding:"required"`
	FolderName string `json:"folder_name" binding:"required"`
}

// ListDriveFolders 列出所有者网盘里可选的目标文件夹
func ListDriveFolders(c *gin.Context) {
	userID := c.GetUint("user_id")

	folders, err := getServices().Folder.ListDriveFolders(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"folders": folders})
}

// SelectFolder 保存所有者选定的目标文件夹
func SelectFolder(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req SelectFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	if err := getServices().Folder.SaveSelectedFolder(c.Request.Context(), userID, req.FolderID, req.FolderName); respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "目标文件夹已保存", nil)
}

func GetSelectedFolder(c *gin.Context) {
	userID := c.GetUint("user_id")

	folder, err := getServices().Folder.GetSelectedFolder(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, folder)
}
