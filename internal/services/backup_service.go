package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	backupTimeLayout = "20060102_150405"
	assetsDirName    = "assets"
)

var (
	imageRefPattern = regexp.MustCompile(`!\[(.*?)\]\(/uploads/(.*?)\)`)
	unsafeNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// Archive 是一次导出生成的 zip 文件。
type Archive struct {
	// Path 是磁盘上的位置，Filename 是下载时使用的文件名。
	Path     string
	Filename string
}

// BackupService 把整个文档目录导出为 Markdown 文件树并打包成 zip。
// 文档中引用的 /uploads 图片会被复制到 assets/ 并改写为相对路径。
type BackupService struct {
	db         *gorm.DB
	uploadRoot string
	backupDir  string
	tempDir    string
	activity   *ActivityService
	now        func() time.Time
}

func NewBackupService(db *gorm.DB, fileCfg config.FileConfig, backupCfg config.BackupConfig, activity *ActivityService) *BackupService {
	return &BackupService{
		db:         db,
		uploadRoot: fileCfg.UploadPath,
		backupDir:  backupCfg.Path,
		tempDir:    backupCfg.TempDir,
		activity:   activity,
		now:        time.Now,
	}
}

// Export 生成备份压缩包，只有管理员可以调用。
// 目录结构读取失败时直接返回错误，不会生成压缩包；单个图片处理失败只记录警告。
func (s *BackupService) Export(ctx context.Context, actor *models.User) (*Archive, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	categories, err := s.loadHierarchy()
	if err != nil {
		return nil, errs.Internal(err, "load hierarchy for backup")
	}

	timestamp := s.now().Format(backupTimeLayout)
	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return nil, errs.Internal(err, "create backup temp directory")
	}
	staging, err := os.MkdirTemp(s.tempDir, "temp_backup_"+timestamp+"_")
	if err != nil {
		return nil, errs.Internal(err, "create staging directory")
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			logrus.WithField("dir", staging).WithError(err).Warn("清理备份临时目录失败")
		}
	}()

	if err := s.writeTree(ctx, staging, categories); err != nil {
		return nil, err
	}

	archive, err := s.pack(staging, timestamp)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": actor.ID,
		"archive": archive.Path,
	}).Info("备份完成")
	s.activity.Log(actor.ID, models.ActionBackup, models.TargetSystem, nil, archive.Filename)
	return archive, nil
}

// Cleanup 删除已经发送给客户端的压缩包，失败只记录日志。
func (s *BackupService) Cleanup(archive *Archive) {
	if archive == nil {
		return
	}
	if err := os.Remove(archive.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("archive", archive.Path).WithError(err).Warn("删除备份文件失败")
	}
}

func (s *BackupService) loadHierarchy() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		Preload("SubCategories.Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		Order("sort_order, id").
		Find(&categories).Error
	return categories, err
}

func (s *BackupService) writeTree(ctx context.Context, staging string, categories []models.Category) error {
	assetsDir := filepath.Join(staging, assetsDirName)
	if err := os.MkdirAll(assetsDir, 0755); err != nil {
		return errs.Internal(err, "create assets directory")
	}

	catNames := newNameSet()
	// 避免分类名与 assets 目录冲突
	catNames.reserve(assetsDirName)

	for _, category := range categories {
		catDir := filepath.Join(staging, catNames.claim(SanitizeFilename(category.Name), ""))
		if err := os.MkdirAll(catDir, 0755); err != nil {
			return errs.Internal(err, "create category directory")
		}

		subNames := newNameSet()
		for _, sub := range category.SubCategories {
			subDir := filepath.Join(catDir, subNames.claim(SanitizeFilename(sub.Name), ""))
			if err := os.MkdirAll(subDir, 0755); err != nil {
				return errs.Internal(err, "create sub category directory")
			}

			docNames := newNameSet()
			for _, doc := range sub.Documents {
				if err := ctx.Err(); err != nil {
					return errs.Internal(err, "backup cancelled")
				}

				docPath := filepath.Join(subDir, docNames.claim(SanitizeFilename(doc.Title), ".md"))
				content := s.rewriteImages(doc.Content, assetsDir, subDir)
				body := fmt.Sprintf("# %s\n\n%s", doc.Title, content)
				if err := os.WriteFile(docPath, []byte(body), 0644); err != nil {
					return errs.Internal(err, "write document")
				}
			}
		}
	}
	return nil
}

// rewriteImages 把 ![alt](/uploads/<path>) 指向的文件复制到 assets/<path>，
// 并把链接改成相对于文档所在目录的路径。找不到源文件时保持原样。
func (s *BackupService) rewriteImages(content, assetsDir, docDir string) string {
	matches := imageRefPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(content[last:m[0]])
		original := content[m[0]:m[1]]
		alt := content[m[2]:m[3]]
		raw := content[m[4]:m[5]]

		if link, ok := s.copyAsset(raw, assetsDir, docDir); ok {
			b.WriteString("![" + alt + "](" + link + ")")
		} else {
			b.WriteString(original)
		}
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String()
}

func (s *BackupService) copyAsset(raw, assetsDir, docDir string) (string, bool) {
	log := logrus.WithField("reference", raw)

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		log.WithError(err).Warn("图片路径无法解码，保持原样")
		return "", false
	}
	rel := path.Clean(strings.ReplaceAll(decoded, "\\", "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		log.Warn("图片路径超出上传目录，保持原样")
		return "", false
	}

	src := filepath.Join(s.uploadRoot, filepath.FromSlash(rel))
	info, err := os.Stat(src)
	if err != nil || info.IsDir() {
		log.WithField("source", src).Warn("图片源文件不存在，保持原样")
		return "", false
	}

	dst := filepath.Join(assetsDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		log.WithError(err).Warn("创建图片目录失败，保持原样")
		return "", false
	}
	if _, err := os.Stat(dst); errors.Is(err, fs.ErrNotExist) {
		if err := copyFile(src, dst, info); err != nil {
			log.WithError(err).Warn("复制图片失败，保持原样")
			return "", false
		}
	}

	link, err := filepath.Rel(docDir, dst)
	if err != nil {
		log.WithError(err).Warn("计算图片相对路径失败，保持原样")
		return "", false
	}
	return filepath.ToSlash(link), true
}

func copyFile(src, dst string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// pack 把临时目录打包为 backup_<timestamp>.zip。
func (s *BackupService) pack(staging, timestamp string) (*Archive, error) {
	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return nil, errs.Internal(err, "create backup directory")
	}
	filename := "backup_" + timestamp + ".zip"
	f, err := os.CreateTemp(s.backupDir, "backup_"+timestamp+"_*.zip")
	if err != nil {
		return nil, errs.Internal(err, "create archive")
	}

	if err := zipDir(f, staging); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, errs.Internal(err, "write archive")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, errs.Internal(err, "close archive")
	}
	return &Archive{Path: f.Name(), Filename: filename}, nil
}

func zipDir(w io.Writer, root string) error {
	zw := zip.NewWriter(w)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		if d.IsDir() {
			header.Name = name + "/"
			_, err := zw.CreateHeader(header)
			return err
		}
		header.Name = name
		header.Method = zip.Deflate

		entry, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(entry, src)
		return err
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// SanitizeFilename 把文件名中不允许的字符替换为下划线。
func SanitizeFilename(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// nameSet 在同一目录内分配不重复的文件名，重名时追加 " (2)"、" (3)"。
type nameSet map[string]bool

func newNameSet() nameSet {
	return nameSet{}
}

func (n nameSet) reserve(name string) {
	n[strings.ToLower(name)] = true
}

func (n nameSet) claim(base, ext string) string {
	if base == "" || base == "." || base == ".." {
		base = "_"
	}
	candidate := base + ext
	for i := 2; n[strings.ToLower(candidate)]; i++ {
		candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
	}
	n.reserve(candidate)
	return candidate
}
