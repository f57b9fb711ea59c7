package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	// AdminUsername 是唯一的超级管理员账号，不能被降级或删除。
	AdminUsername = "admin"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Role         string     `json:"role" gorm:"size:20;not null"`
	Avatar       *string    `json:"avatar" gorm:"size:255"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required,notblank,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type PasswordResetRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required"`
}

type AvatarUpdateRequest struct {
	Avatar string `json:"avatar" validate:"required,max=255"`
}
