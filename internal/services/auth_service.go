package services

import (
	"errors"
	"time"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewAuthService(db *gorm.DB, activity *ActivityService) *AuthService {
	return &AuthService{db: db, activity: activity}
}

// Login 校验用户名和密码，成功后更新 last_login。
func (s *AuthService) Login(req *models.LoginRequest) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Unauthorized("用户名或密码错误")
		}
		return nil, errs.Internal(err, "lookup user")
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, errs.Internal(err, "verify password")
	}
	if !valid {
		return nil, errs.Unauthorized("用户名或密码错误")
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, errs.Internal(err, "update last_login")
	}
	user.LastLogin = &now

	s.activity.Log(user.ID, models.ActionLogin, models.TargetUser, &user.ID, "")
	return &user, nil
}

// UserByUsername 按令牌中的 subject 查找用户。
func (s *AuthService) UserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("用户不存在")
		}
		return nil, errs.Internal(err, "lookup user")
	}
	return &user, nil
}

func (s *AuthService) ChangeOwnPassword(user *models.User, req *models.PasswordChangeRequest) error {
	valid, err := utils.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return errs.Internal(err, "verify password")
	}
	if !valid {
		return errs.BadRequest("当前密码错误")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return errs.Internal(err, "hash password")
	}
	if err := s.db.Model(user).Update("password_hash", hash).Error; err != nil {
		return errs.Internal(err, "update password")
	}
	user.PasswordHash = hash
	s.activity.Log(user.ID, models.ActionUpdate, models.TargetUser, &user.ID, "password")
	return nil
}

func (s *AuthService) UpdateAvatar(user *models.User, avatar string) (*models.User, error) {
	if err := s.db.Model(user).Update("avatar", avatar).Error; err != nil {
		return nil, errs.Internal(err, "update avatar")
	}
	user.Avatar = &avatar
	s.activity.Log(user.ID, models.ActionUpdate, models.TargetUser, &user.ID, "avatar")
	return user, nil
}
