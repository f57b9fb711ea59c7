package services

import (
	"errors"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"gorm.io/gorm"
)

const defaultUserPageSize = 100

// UserService 提供管理员的用户管理操作。每个方法都会再次校验调用者是否为管理员。
type UserService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewUserService(db *gorm.DB, activity *ActivityService) *UserService {
	return &UserService{db: db, activity: activity}
}

func requireUser(actor *models.User) error {
	if actor == nil {
		return errs.Unauthorized("请先登录")
	}
	return nil
}

func requireAdmin(actor *models.User) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return errs.Forbidden("需要管理员权限")
	}
	return nil
}

func (s *UserService) ListUsers(actor *models.User, offset, limit int) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultUserPageSize
	}

	var users []models.User
	if err := s.db.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, errs.Internal(err, "list users")
	}
	return users, nil
}

// CreateUser 创建普通用户，用户名重复时返回 BadRequest。
func (s *UserService) CreateUser(actor *models.User, req *models.UserCreateRequest) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, errs.Internal(err, "check username")
	}
	if count > 0 {
		return nil, errs.BadRequest("用户名已存在")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errs.Internal(err, "hash password")
	}
	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, errs.Internal(err, "create user")
	}

	s.activity.Log(actor.ID, models.ActionCreate, models.TargetUser, &user.ID, user.Username)
	return &user, nil
}

func (s *UserService) ResetPassword(actor *models.User, userID uint, password string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	user, err := s.find(userID)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return errs.Internal(err, "hash password")
	}
	if err := s.db.Model(user).Update("password_hash", hash).Error; err != nil {
		return errs.Internal(err, "reset password")
	}

	s.activity.Log(actor.ID, models.ActionResetPassword, models.TargetUser, &user.ID, user.Username)
	return nil
}

// UpdateRole 修改用户角色。超级管理员账号的角色不能修改。
func (s *UserService) UpdateRole(actor *models.User, userID uint, role string) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.find(userID)
	if err != nil {
		return nil, err
	}
	if user.Username == models.AdminUsername {
		return nil, errs.Forbidden("不能修改超级管理员")
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, errs.BadRequest("无效的角色: %s", role)
	}

	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, errs.Internal(err, "update role")
	}
	user.Role = role

	s.activity.Log(actor.ID, models.ActionUpdateRole, models.TargetUser, &user.ID, role)
	return user, nil
}

// DeleteUser 删除用户。该用户写的文档保留，作者信息变为空。
func (s *UserService) DeleteUser(actor *models.User, userID uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	user, err := s.find(userID)
	if err != nil {
		return err
	}
	if user.Username == models.AdminUsername {
		return errs.Forbidden("不能删除超级管理员")
	}

	if err := s.db.Delete(user).Error; err != nil {
		return errs.Internal(err, "delete user")
	}

	s.activity.Log(actor.ID, models.ActionDelete, models.TargetUser, &userID, user.Username)
	return nil
}

func (s *UserService) find(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("用户不存在")
		}
		return nil, errs.Internal(err, "lookup user")
	}
	return &user, nil
}
