package handlers

import (
	"github.com/daijiahui66/ADDoc/internal/middleware"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	doc, err := h.documentService.GetDocument(id, middleware.CurrentUser(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, doc)
}

func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req models.DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.documentService.CreateDocument(middleware.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "文档创建成功", doc)
}

func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	doc, err := h.documentService.UpdateDocument(middleware.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "文档更新成功", doc)
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.documentService.DeleteDocument(middleware.CurrentUser(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "文档删除成功", nil)
}

func (h *DocumentHandler) ReorderDocuments(c *gin.Context) {
	var req models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.documentService.ReorderDocuments(middleware.CurrentUser(c), req.IDs); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "排序已更新", nil)
}

func (h *DocumentHandler) RecentDocuments(c *gin.Context) {
	docs, err := h.documentService.RecentDocuments(queryInt(c, "limit", 10), middleware.CurrentUser(c) != nil)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, docs)
}
