package services

import (
	"strings"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"gorm.io/gorm"
)

const (
	snippetLength   = 200
	searchBatchSize = 200
)

// SearchService 对文档做线性扫描，标题或正文包含关键字（不区分大小写）即命中。
type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

func (s *SearchService) Search(query string, authenticated bool) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errs.BadRequest("搜索关键字不能为空")
	}
	needle := strings.ToLower(query)

	tx := s.db.Model(&models.Document{}).Preload("SubCategory.Category")
	if !authenticated {
		tx = tx.Where("is_public = ?", true)
	}

	results := []models.SearchResult{}
	var batch []models.Document
	err := tx.FindInBatches(&batch, searchBatchSize, func(_ *gorm.DB, _ int) error {
		for i := range batch {
			doc := &batch[i]
			if !strings.Contains(strings.ToLower(doc.Title), needle) &&
				!strings.Contains(strings.ToLower(doc.Content), needle) {
				continue
			}
			results = append(results, toSearchResult(doc))
		}
		return nil
	}).Error
	if err != nil {
		return nil, errs.Internal(err, "search documents")
	}
	return results, nil
}

func toSearchResult(doc *models.Document) models.SearchResult {
	r := models.SearchResult{
		ID:        doc.ID,
		Title:     doc.Title,
		Snippet:   Snippet(doc.Content),
		IsPublic:  doc.IsPublic,
		UpdatedAt: doc.UpdatedAt,
	}
	if sub := doc.SubCategory; sub != nil {
		r.SubCategoryName = sub.Name
		if sub.Category != nil {
			r.CategoryName = sub.Category.Name
		}
	}
	return r
}

// Snippet 截取正文前 200 个字符，超出时追加 "..."。
func Snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength]) + "..."
}
