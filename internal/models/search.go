package models

import (
	"time"
)

type SearchResult struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Snippet         string    `json:"snippet"`
	CategoryName    string    `json:"category_name"`
	SubCategoryName string    `json:"sub_category_name"`
	IsPublic        bool      `json:"is_public"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Stats struct {
	TotalDocs   int64 `json:"total_docs"`
	PublicDocs  int64 `json:"public_docs"`
	PrivateDocs int64 `json:"private_docs"`
	TotalUsers  int64 `json:"total_users"`
}
