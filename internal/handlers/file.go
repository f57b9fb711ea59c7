package handlers

import (
	"net/http"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/middleware"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileService *services.FileService
	config      *config.Config
}

func NewFileHandler(fileService *services.FileService, cfg *config.Config) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		config:      cfg,
	}
}

// UploadFile 接收 multipart 字段 file，返回可以直接写进 Markdown 的 URL。
func (h *FileHandler) UploadFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.File.MaxImageSize+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "未找到上传文件")
		return
	}
	defer file.Close()

	if header.Size > h.config.File.MaxImageSize {
		utils.Error(c, http.StatusBadRequest, "文件过大")
		return
	}

	attachment, err := h.fileService.UploadFile(
		middleware.CurrentUser(c), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "文件上传成功", models.UploadResponse{URL: attachment.URL})
}
