package handlers

import (
	"github.com/daijiahui66/ADDoc/internal/middleware"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, categories)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.CreateCategory(middleware.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "分类创建成功", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.UpdateCategory(middleware.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "分类更新成功", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.DeleteCategory(middleware.CurrentUser(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "分类删除成功", nil)
}

func (h *CategoryHandler) ReorderCategories(c *gin.Context) {
	var req models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.categoryService.ReorderCategories(middleware.CurrentUser(c), req.IDs); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "排序已更新", nil)
}

func (h *CategoryHandler) CreateSubCategory(c *gin.Context) {
	var req models.SubCategoryCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := h.categoryService.CreateSubCategory(middleware.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "子分类创建成功", sub)
}

func (h *CategoryHandler) UpdateSubCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := h.categoryService.UpdateSubCategory(middleware.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "子分类更新成功", sub)
}

func (h *CategoryHandler) DeleteSubCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.DeleteSubCategory(middleware.CurrentUser(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "子分类删除成功", nil)
}

func (h *CategoryHandler) ReorderSubCategories(c *gin.Context) {
	var req models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.categoryService.ReorderSubCategories(middleware.CurrentUser(c), req.IDs); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "排序已更新", nil)
}

// GetTree 返回完整目录树，匿名访问时不包含私有文档。
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tree, err := h.categoryService.Tree(middleware.CurrentUser(c) != nil)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.Success(c, tree)
}
