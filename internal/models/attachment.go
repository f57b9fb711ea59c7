package models

import (
	"time"
)

// Attachment 记录一次上传到 /uploads 的文件。
type Attachment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	Filename         string    `json:"filename" gorm:"size:255;not null"`
	OriginalFilename string    `json:"original_filename" gorm:"size:255;not null"`
	FilePath         string    `json:"file_path" gorm:"size:500;not null;uniqueIndex"`
	FileSize         int64     `json:"file_size" gorm:"not null"`
	MimeType         *string   `json:"mime_type" gorm:"size:100"`
	CreatedAt        time.Time `json:"created_at"`

	// 计算字段
	URL string `json:"url" gorm:"-"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
