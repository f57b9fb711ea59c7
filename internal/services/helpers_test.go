package services

import (
	"testing"
	"time"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/database"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "secret123"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     ":memory:",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func newActivity(db *gorm.DB) *ActivityService {
	return NewActivityService(db, time.UTC)
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{Username: username, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fixture 创建一个分类、一个子分类和若干文档。
type fixture struct {
	category *models.Category
	sub      *models.SubCategory
}

func newFixture(t *testing.T, db *gorm.DB, categoryName string) fixture {
	t.Helper()
	category := &models.Category{Name: categoryName}
	require.NoError(t, db.Create(category).Error)
	sub := &models.SubCategory{CategoryID: category.ID, Name: "Sub"}
	require.NoError(t, db.Create(sub).Error)
	return fixture{category: category, sub: sub}
}

func (f fixture) addDoc(t *testing.T, db *gorm.DB, author *models.User, title, content string, public bool) *models.Document {
	t.Helper()
	doc := &models.Document{
		SubCategoryID: f.sub.ID,
		Title:         title,
		Content:       content,
		IsPublic:      public,
	}
	if author != nil {
		doc.AuthorID = &author.ID
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func boolPtr(b bool) *bool {
	return &b
}
