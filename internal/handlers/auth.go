package handlers

import (
	"net/http"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/middleware"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"
	"github.com/daijiahui66/ADDoc/pkg/validator"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
	config      *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

// Login 支持 JSON 和表单两种提交方式。
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		utils.ValidationError(c, validator.FieldErrors(err))
		return
	}

	user, err := h.authService.Login(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, h.config.JWT.Secret, h.config.TokenTTL())
	if err != nil {
		utils.InternalError(c)
		return
	}

	utils.SuccessWithMessage(c, "登录成功", models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	utils.Success(c, middleware.CurrentUser(c))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.PasswordChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangeOwnPassword(middleware.CurrentUser(c), &req); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "密码修改成功", nil)
}

func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	var req models.AvatarUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.authService.UpdateAvatar(middleware.CurrentUser(c), req.Avatar)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, user)
}
