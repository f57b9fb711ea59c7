package services

import (
	"errors"
	"strings"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultRecentLimit = 10

type DocumentService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewDocumentService(db *gorm.DB, activity *ActivityService) *DocumentService {
	return &DocumentService{db: db, activity: activity}
}

// GetDocument 返回文档详情。私有文档只对已登录用户可见。
func (s *DocumentService) GetDocument(documentID uint, viewer *models.User) (*models.DocumentDetail, error) {
	var doc models.Document
	err := s.db.Preload("Author").Preload("SubCategory.Category").First(&doc, documentID).Error
	if err != nil {
		return nil, notFoundOr(err, "文档不存在")
	}
	if !doc.IsPublic && viewer == nil {
		return nil, errs.Unauthorized("请登录后查看私有文档")
	}
	return toDetail(&doc), nil
}

func (s *DocumentService) CreateDocument(actor *models.User, req *models.DocumentRequest) (*models.Document, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	if err := s.checkSubCategory(req.SubCategoryID); err != nil {
		return nil, err
	}

	doc := models.Document{AuthorID: &actor.ID}
	applyDocument(&doc, req)
	if err := s.db.Omit(clause.Associations).Create(&doc).Error; err != nil {
		return nil, errs.Internal(err, "create document")
	}

	s.activity.Log(actor.ID, models.ActionCreate, models.TargetDocument, &doc.ID, doc.Title)
	return &doc, nil
}

// UpdateDocument 整体替换文档内容，只有作者或管理员可以修改。
func (s *DocumentService) UpdateDocument(actor *models.User, documentID uint, req *models.DocumentRequest) (*models.Document, error) {
	doc, err := s.editable(actor, documentID)
	if err != nil {
		return nil, err
	}
	if doc.SubCategoryID != req.SubCategoryID {
		if err := s.checkSubCategory(req.SubCategoryID); err != nil {
			return nil, err
		}
	}

	applyDocument(doc, req)
	if err := s.db.Omit(clause.Associations).Save(doc).Error; err != nil {
		return nil, errs.Internal(err, "update document")
	}

	s.activity.Log(actor.ID, models.ActionUpdate, models.TargetDocument, &doc.ID, doc.Title)
	return doc, nil
}

func (s *DocumentService) DeleteDocument(actor *models.User, documentID uint) error {
	doc, err := s.editable(actor, documentID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&models.Document{}, doc.ID).Error; err != nil {
		return errs.Internal(err, "delete document")
	}

	s.activity.Log(actor.ID, models.ActionDelete, models.TargetDocument, &doc.ID, doc.Title)
	return nil
}

func (s *DocumentService) ReorderDocuments(actor *models.User, ids []uint) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if err := reorderIDs(s.db, &models.Document{}, ids); err != nil {
		return err
	}
	s.activity.Log(actor.ID, models.ActionReorder, models.TargetDocument, nil, "")
	return nil
}

// RecentDocuments 返回最近更新的文档，匿名访问时只包含公开文档。
func (s *DocumentService) RecentDocuments(limit int, authenticated bool) ([]models.DocumentDetail, error) {
	if limit <= 0 || limit > maxActivityLimit {
		limit = defaultRecentLimit
	}

	query := s.db.Preload("Author").Preload("SubCategory.Category").
		Order("updated_at DESC, id DESC").
		Limit(limit)
	if !authenticated {
		query = query.Where("is_public = ?", true)
	}

	var docs []models.Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, errs.Internal(err, "recent documents")
	}

	details := make([]models.DocumentDetail, 0, len(docs))
	for i := range docs {
		details = append(details, *toDetail(&docs[i]))
	}
	return details, nil
}

func (s *DocumentService) editable(actor *models.User, documentID uint) (*models.Document, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	var doc models.Document
	if err := s.db.First(&doc, documentID).Error; err != nil {
		return nil, notFoundOr(err, "文档不存在")
	}
	if !doc.IsAuthoredBy(actor) && !actor.IsAdmin() {
		return nil, errs.Forbidden("只有作者或管理员可以修改该文档")
	}
	return &doc, nil
}

func (s *DocumentService) checkSubCategory(subID uint) error {
	var sub models.SubCategory
	if err := s.db.Select("id").First(&sub, subID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.BadRequest("子分类不存在")
		}
		return errs.Internal(err, "lookup sub category")
	}
	return nil
}

func applyDocument(d *models.Document, req *models.DocumentRequest) {
	d.Title = strings.TrimSpace(req.Title)
	d.Content = req.Content
	d.IsPublic = req.Public()
	d.SubCategoryID = req.SubCategoryID
	d.SortOrder = req.SortOrder
}

func toDetail(doc *models.Document) *models.DocumentDetail {
	detail := &models.DocumentDetail{Document: *doc}
	if sub := doc.SubCategory; sub != nil {
		detail.SubCategoryName = sub.Name
		detail.CategoryID = sub.CategoryID
		if sub.Category != nil {
			detail.CategoryName = sub.Category.Name
		}
	}
	if doc.Author != nil {
		detail.AuthorName = doc.Author.Username
	}
	return detail
}
