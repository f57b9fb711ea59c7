package database

import (
	"github.com/daijiahui66/ADDoc/internal/models"

	"gorm.io/gorm"
)

// DeleteCategoryCascade 删除分类及其全部子分类和文档，先删子节点。
// 调用方负责开启事务。
func DeleteCategoryCascade(tx *gorm.DB, categoryID uint) error {
	subIDs := tx.Model(&models.SubCategory{}).Select("id").Where("category_id = ?", categoryID)
	if err := tx.Where("sub_category_id IN (?)", subIDs).Delete(&models.Document{}).Error; err != nil {
		return err
	}
	if err := tx.Where("category_id = ?", categoryID).Delete(&models.SubCategory{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Category{}, categoryID).Error
}

// DeleteSubCategoryCascade 删除子分类及其文档。调用方负责开启事务。
func DeleteSubCategoryCascade(tx *gorm.DB, subCategoryID uint) error {
	if err := tx.Where("sub_category_id = ?", subCategoryID).Delete(&models.Document{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.SubCategory{}, subCategoryID).Error
}
