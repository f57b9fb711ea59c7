package models

import (
	"time"
)

type Document struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SubCategoryID uint      `json:"sub_category_id" gorm:"not null;index"`
	Title         string    `json:"title" gorm:"size:255;not null"`
	Content       string    `json:"content" gorm:"type:text"`
	IsPublic      bool      `json:"is_public" gorm:"not null;index"`
	SortOrder     int       `json:"sort_order" gorm:"not null;default:0"`
	AuthorID      *uint     `json:"author_id" gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联，作者被删除后为空
	Author      *User        `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	SubCategory *SubCategory `json:"-" gorm:"foreignKey:SubCategoryID"`
}

// IsAuthoredBy reports whether u wrote the document. A document whose
// author was deleted belongs to nobody.
func (d *Document) IsAuthoredBy(u *User) bool {
	return u != nil && d.AuthorID != nil && *d.AuthorID == u.ID
}

// DocumentRequest is used for both create and full-replace update.
// A missing is_public means public.
type DocumentRequest struct {
	Title         string `json:"title" validate:"required,notblank,max=255"`
	Content       string `json:"content"`
	IsPublic      *bool  `json:"is_public"`
	SubCategoryID uint   `json:"sub_category_id" validate:"required"`
	SortOrder     int    `json:"sort_order"`
}

func (r *DocumentRequest) Public() bool {
	return r.IsPublic == nil || *r.IsPublic
}

type DocumentDetail struct {
	Document
	CategoryID      uint   `json:"category_id"`
	CategoryName    string `json:"category_name"`
	SubCategoryName string `json:"sub_category_name"`
	AuthorName      string `json:"author_name,omitempty"`
}
