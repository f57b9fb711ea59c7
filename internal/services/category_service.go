package services

import (
	"errors"
	"strings"

	"github.com/daijiahui66/ADDoc/internal/database"
	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"gorm.io/gorm"
)

// CategoryService 管理分类、子分类以及目录树。
type CategoryService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewCategoryService(db *gorm.DB, activity *ActivityService) *CategoryService {
	return &CategoryService{db: db, activity: activity}
}

func (s *CategoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("sort_order, id").Find(&categories).Error; err != nil {
		return nil, errs.Internal(err, "list categories")
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(actor *models.User, req *models.CategoryRequest) (*models.Category, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.checkCategoryName(name, 0); err != nil {
		return nil, err
	}

	category := models.Category{Name: name}
	applyCategory(&category, req)
	if err := s.db.Create(&category).Error; err != nil {
		return nil, errs.Internal(err, "create category")
	}

	s.activity.Log(actor.ID, models.ActionCreate, models.TargetCategory, &category.ID, category.Name)
	return &category, nil
}

// UpdateCategory 整体替换分类的可编辑字段。
func (s *CategoryService) UpdateCategory(actor *models.User, categoryID uint, req *models.CategoryRequest) (*models.Category, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return nil, notFoundOr(err, "分类不存在")
	}
	if err := s.checkCategoryName(strings.TrimSpace(req.Name), category.ID); err != nil {
		return nil, err
	}

	applyCategory(&category, req)
	if err := s.db.Save(&category).Error; err != nil {
		return nil, errs.Internal(err, "update category")
	}

	s.activity.Log(actor.ID, models.ActionUpdate, models.TargetCategory, &category.ID, category.Name)
	return &category, nil
}

// DeleteCategory 删除分类及其下全部子分类和文档。
func (s *CategoryService) DeleteCategory(actor *models.User, categoryID uint) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return notFoundOr(err, "分类不存在")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return database.DeleteCategoryCascade(tx, category.ID)
	})
	if err != nil {
		return errs.Internal(err, "delete category")
	}

	s.activity.Log(actor.ID, models.ActionDelete, models.TargetCategory, &category.ID, category.Name)
	return nil
}

func (s *CategoryService) ReorderCategories(actor *models.User, ids []uint) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if err := s.reorder(&models.Category{}, ids); err != nil {
		return err
	}
	s.activity.Log(actor.ID, models.ActionReorder, models.TargetCategory, nil, "")
	return nil
}

func (s *CategoryService) CreateSubCategory(actor *models.User, req *models.SubCategoryCreateRequest) (*models.SubCategory, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	var parent models.Category
	if err := s.db.First(&parent, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.BadRequest("父分类不存在")
		}
		return nil, errs.Internal(err, "lookup category")
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkSubCategoryName(parent.ID, name, 0); err != nil {
		return nil, err
	}

	sub := models.SubCategory{
		CategoryID: parent.ID,
		Name:       name,
		SortOrder:  req.SortOrder,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, errs.Internal(err, "create sub category")
	}

	s.activity.Log(actor.ID, models.ActionCreate, models.TargetSubCategory, &sub.ID, sub.Name)
	return &sub, nil
}

// UpdateSubCategory 整体替换名称和排序，不能移动到其他分类。
func (s *CategoryService) UpdateSubCategory(actor *models.User, subID uint, req *models.CategoryRequest) (*models.SubCategory, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	var sub models.SubCategory
	if err := s.db.First(&sub, subID).Error; err != nil {
		return nil, notFoundOr(err, "子分类不存在")
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkSubCategoryName(sub.CategoryID, name, sub.ID); err != nil {
		return nil, err
	}

	sub.Name = name
	sub.SortOrder = req.SortOrder
	if err := s.db.Omit("Category", "Documents").Save(&sub).Error; err != nil {
		return nil, errs.Internal(err, "update sub category")
	}

	s.activity.Log(actor.ID, models.ActionUpdate, models.TargetSubCategory, &sub.ID, sub.Name)
	return &sub, nil
}

func (s *CategoryService) DeleteSubCategory(actor *models.User, subID uint) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	var sub models.SubCategory
	if err := s.db.First(&sub, subID).Error; err != nil {
		return notFoundOr(err, "子分类不存在")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return database.DeleteSubCategoryCascade(tx, sub.ID)
	})
	if err != nil {
		return errs.Internal(err, "delete sub category")
	}

	s.activity.Log(actor.ID, models.ActionDelete, models.TargetSubCategory, &sub.ID, sub.Name)
	return nil
}

func (s *CategoryService) ReorderSubCategories(actor *models.User, ids []uint) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if err := s.reorder(&models.SubCategory{}, ids); err != nil {
		return err
	}
	s.activity.Log(actor.ID, models.ActionReorder, models.TargetSubCategory, nil, "")
	return nil
}

// Tree 返回完整目录树，每一层按 sort_order 升序。
// 匿名访问时不包含私有文档。
func (s *CategoryService) Tree(authenticated bool) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		Preload("SubCategories.Documents", func(db *gorm.DB) *gorm.DB {
			db = db.Order("sort_order, id")
			if !authenticated {
				db = db.Where("is_public = ?", true)
			}
			return db
		}).
		Order("sort_order, id").
		Find(&categories).Error
	if err != nil {
		return nil, errs.Internal(err, "load structure tree")
	}
	return categories, nil
}

// reorder 把 ids[i] 的 sort_order 设置为 i。列表之外的兄弟节点保持原值，
// 不存在的 id 被忽略。
func (s *CategoryService) reorder(model interface{}, ids []uint) error {
	return reorderIDs(s.db, model, ids)
}

func reorderIDs(db *gorm.DB, model interface{}, ids []uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(model).Where("id = ?", id).UpdateColumn("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.Internal(err, "reorder")
	}
	return nil
}

func (s *CategoryService) checkCategoryName(name string, selfID uint) error {
	var count int64
	err := s.db.Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, selfID).
		Count(&count).Error
	if err != nil {
		return errs.Internal(err, "check category name")
	}
	if count > 0 {
		return errs.BadRequest("分类名称已存在")
	}
	return nil
}

func (s *CategoryService) checkSubCategoryName(categoryID uint, name string, selfID uint) error {
	var count int64
	err := s.db.Model(&models.SubCategory{}).
		Where("category_id = ? AND name = ? AND id <> ?", categoryID, name, selfID).
		Count(&count).Error
	if err != nil {
		return errs.Internal(err, "check sub category name")
	}
	if count > 0 {
		return errs.BadRequest("同一分类下子分类名称已存在")
	}
	return nil
}

func applyCategory(c *models.Category, req *models.CategoryRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.SortOrder = req.SortOrder
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("%s", message)
	}
	return errs.Internal(err, "query")
}
