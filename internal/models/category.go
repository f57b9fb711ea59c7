package models

import (
	"time"
)

type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`

	// 关联
	SubCategories []SubCategory `json:"sub_categories,omitempty" gorm:"foreignKey:CategoryID"`
}

type SubCategory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CategoryID uint      `json:"category_id" gorm:"not null;uniqueIndex:idx_sub_category_parent_name"`
	Name       string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_sub_category_parent_name"`
	SortOrder  int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`

	// 关联
	Category  *Category  `json:"-" gorm:"foreignKey:CategoryID"`
	Documents []Document `json:"documents,omitempty" gorm:"foreignKey:SubCategoryID"`
}

type CategoryRequest struct {
	Name      string `json:"name" validate:"required,notblank,max=100"`
	SortOrder int    `json:"sort_order"`
}

// SubCategoryCreateRequest 更新子分类时使用 CategoryRequest，父分类不可修改。
type SubCategoryCreateRequest struct {
	CategoryID uint   `json:"category_id" validate:"required"`
	Name       string `json:"name" validate:"required,notblank,max=100"`
	SortOrder  int    `json:"sort_order"`
}

type ReorderRequest struct {
	IDs []uint `json:"ids" validate:"required"`
}
