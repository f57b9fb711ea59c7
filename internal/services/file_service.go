package services

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UploadURLPrefix 是上传文件对外访问的路径前缀，也是文档中图片引用的前缀。
const UploadURLPrefix = "/uploads/"

// FileService 把上传的文件保存到 upload_path/YYYY/MM/<uuid>.<ext>。
type FileService struct {
	db       *gorm.DB
	cfg      config.FileConfig
	activity *ActivityService
	now      func() time.Time
}

func NewFileService(db *gorm.DB, cfg config.FileConfig, activity *ActivityService) *FileService {
	return &FileService{
		db:       db,
		cfg:      cfg,
		activity: activity,
		now:      time.Now,
	}
}

func (s *FileService) UploadFile(actor *models.User, r io.Reader, originalName, mimeType string) (*models.Attachment, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	ext := filepath.Ext(originalName)
	if !s.cfg.IsImageType(ext) {
		return nil, errs.BadRequest("不支持的文件类型: %s", ext)
	}

	now := s.now()
	relDir := path.Join(now.Format("2006"), now.Format("01"))
	filename := uuid.New().String() + ext
	relPath := path.Join(relDir, filename)

	dir := filepath.Join(s.cfg.UploadPath, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Internal(err, "create upload directory")
	}

	fullPath := filepath.Join(dir, filename)
	size, err := s.writeFile(fullPath, r)
	if err != nil {
		return nil, err
	}

	attachment := models.Attachment{
		UserID:           actor.ID,
		Filename:         filename,
		OriginalFilename: filepath.Base(originalName),
		FilePath:         relPath,
		FileSize:         size,
	}
	if mimeType != "" {
		attachment.MimeType = &mimeType
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		os.Remove(fullPath)
		return nil, errs.Internal(err, "save attachment")
	}
	attachment.URL = UploadURLPrefix + relPath

	logrus.WithFields(logrus.Fields{
		"user_id": actor.ID,
		"path":    relPath,
		"size":    size,
	}).Info("文件上传成功")
	s.activity.Log(actor.ID, models.ActionUpload, models.TargetFile, &attachment.ID, attachment.OriginalFilename)
	return &attachment, nil
}

// writeFile 写入文件，超过 max_image_size 时返回 BadRequest。
// 出错时文件先关闭再删除。
func (s *FileService) writeFile(fullPath string, r io.Reader) (int64, error) {
	dst, err := os.Create(fullPath)
	if err != nil {
		return 0, errs.Internal(err, "create file")
	}

	limit := s.cfg.MaxImageSize
	n, err := io.Copy(dst, io.LimitReader(r, limit+1))
	closeErr := dst.Close()

	switch {
	case err != nil:
		err = errs.Internal(err, "write file")
	case n > limit:
		err = errs.BadRequest("文件大小超过限制 (%s)", humanSize(limit))
	case closeErr != nil:
		err = errs.Internal(closeErr, "close file")
	}
	if err != nil {
		os.Remove(fullPath)
		return 0, err
	}
	return n, nil
}

func humanSize(n int64) string {
	const mb = 1 << 20
	if n >= mb {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%dB", n)
}
