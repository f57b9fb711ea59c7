package services

import (
	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) GetStats() (*models.Stats, error) {
	var stats models.Stats

	if err := s.db.Model(&models.Document{}).Count(&stats.TotalDocs).Error; err != nil {
		return nil, errs.Internal(err, "count documents")
	}
	if err := s.db.Model(&models.Document{}).Where("is_public = ?", true).Count(&stats.PublicDocs).Error; err != nil {
		return nil, errs.Internal(err, "count public documents")
	}
	stats.PrivateDocs = stats.TotalDocs - stats.PublicDocs

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, errs.Internal(err, "count users")
	}
	return &stats, nil
}
