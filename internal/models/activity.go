package models

import (
	"time"
)

const (
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionReorder       = "reorder"
	ActionLogin         = "login"
	ActionUpload        = "upload"
	ActionBackup        = "backup"
	ActionResetPassword = "reset_password"
	ActionUpdateRole    = "update_role"

	TargetCategory    = "category"
	TargetSubCategory = "sub_category"
	TargetDocument    = "document"
	TargetUser        = "user"
	TargetFile        = "file"
	TargetSystem      = "system"
)

type ActivityLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Action     string    `json:"action" gorm:"size:50;not null"`
	TargetType string    `json:"target_type" gorm:"size:50;not null"`
	TargetID   *uint     `json:"target_id"`
	Details    *string   `json:"details" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

type ActivityEntry struct {
	ID         uint      `json:"id"`
	UserName   string    `json:"user_name"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   *uint     `json:"target_id"`
	Details    *string   `json:"details"`
	Time       time.Time `json:"time"`
}
