package database

import (
	"errors"
	"fmt"

	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EnsureAdmin 保证超级管理员账号存在且角色为 admin。
// 账号不存在时用 initialPassword 创建；已存在但被降级时恢复角色，不改密码。
func EnsureAdmin(db *gorm.DB, initialPassword string) error {
	var admin models.User
	err := db.Where("username = ?", models.AdminUsername).First(&admin).Error
	switch {
	case err == nil:
		if admin.Role == models.RoleAdmin {
			return nil
		}
		if err := db.Model(&admin).Update("role", models.RoleAdmin).Error; err != nil {
			return fmt.Errorf("restore admin role: %w", err)
		}
		logrus.Warn("admin 账号角色已恢复为 admin")
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := utils.HashPassword(initialPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin = models.User{
			Username:     models.AdminUsername,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logrus.WithField("user_id", admin.ID).Info("已创建默认 admin 账号")
		return nil

	default:
		return fmt.Errorf("lookup admin: %w", err)
	}
}
