package handlers

import (
	"net/http"

	"github.com/daijiahui66/ADDoc/internal/middleware"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler 处理用户管理和系统备份，路由层已经挂了 AdminMiddleware。
type AdminHandler struct {
	userService   *services.UserService
	backupService *services.BackupService
}

func NewAdminHandler(userService *services.UserService, backupService *services.BackupService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		backupService: backupService,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var page models.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		utils.Error(c, http.StatusBadRequest, "请求参数错误")
		return
	}
	users, err := h.userService.ListUsers(middleware.CurrentUser(c), page.Offset, page.Limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, users)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req models.UserCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.CreateUser(middleware.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "用户创建成功", user)
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.PasswordResetRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.userService.ResetPassword(middleware.CurrentUser(c), id, req.Password); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "密码已重置", nil)
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.RoleUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateRole(middleware.CurrentUser(c), id, req.Role)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(middleware.CurrentUser(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "用户已删除", nil)
}

// Backup 生成备份并作为附件下载，发送完成后在后台删除压缩包。
func (h *AdminHandler) Backup(c *gin.Context) {
	archive, err := h.backupService.Export(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.FileAttachment(archive.Path, archive.Filename)
	go h.backupService.Cleanup(archive)
}
