package services

import (
	"time"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultActivityLimit = 10
	maxActivityLimit     = 100

	unknownUserName = "Unknown"
)

type ActivityService struct {
	db  *gorm.DB
	loc *time.Location
}

// NewActivityService 创建活动日志服务，loc 决定热力图按哪个时区的自然日分组。
func NewActivityService(db *gorm.DB, loc *time.Location) *ActivityService {
	if loc == nil {
		loc = time.Local
	}
	return &ActivityService{db: db, loc: loc}
}

// Log 追加一条活动记录。写入失败只记录日志，不影响调用方的业务结果。
// 不要在其他事务内部调用。
func (s *ActivityService) Log(userID uint, action, targetType string, targetID *uint, details string) {
	entry := models.ActivityLog{
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if details != "" {
		entry.Details = &details
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entry).Error
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":     userID,
			"action":      action,
			"target_type": targetType,
		}).WithError(err).Warn("记录活动日志失败")
	}
}

// Latest 返回最新的活动记录，按时间倒序。用户已被删除时显示 Unknown。
func (s *ActivityService) Latest(limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	var logs []models.ActivityLog
	err := s.db.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, errs.Internal(err, "list activity")
	}

	entries := make([]models.ActivityEntry, 0, len(logs))
	for _, l := range logs {
		name := unknownUserName
		if l.User != nil {
			name = l.User.Username
		}
		entries = append(entries, models.ActivityEntry{
			ID:         l.ID,
			UserName:   name,
			Action:     l.Action,
			TargetType: l.TargetType,
			TargetID:   l.TargetID,
			Details:    l.Details,
			Time:       l.CreatedAt,
		})
	}
	return entries, nil
}

// Heatmap 统计某个用户每天的活动次数，键为 YYYY-MM-DD。
// 在 Go 里分组，保证不同数据库方言结果一致。
func (s *ActivityService) Heatmap(userID uint) (map[string]int64, error) {
	heatmap := make(map[string]int64)

	var rows []models.ActivityLog
	err := s.db.Model(&models.ActivityLog{}).
		Select("id", "created_at").
		Where("user_id = ?", userID).
		FindInBatches(&rows, 500, func(tx *gorm.DB, batch int) error {
			for _, r := range rows {
				heatmap[r.CreatedAt.In(s.loc).Format("2006-01-02")]++
			}
			return nil
		}).Error
	if err != nil {
		return nil, errs.Internal(err, "activity heatmap")
	}
	return heatmap, nil
}
