package handlers

import (
	"drivedrop/utils"

	"github.com/gin-gonic/gin"
)

// GetGoogleAuthURL 返回 Google 授权页地址
func GetGoogleAuthURL(c *gin.Context) {
	out, err := getServices().Auth.GetAuthURL(c.Request.Context())
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

// GoogleAuthCallback 授权回调:换取凭证并签发会话令牌
func GoogleAuthCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	out, err := getServices().Auth.HandleCallback(c.Request.Context(), state, code)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, err := getServices().Auth.GetProfile(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, user)
}
