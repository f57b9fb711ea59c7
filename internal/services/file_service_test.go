package services

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileService(t *testing.T, maxSize int64) (*FileService, string, *models.User) {
	t.Helper()
	db := newTestDB(t)
	dir := t.TempDir()
	svc := NewFileService(db, config.FileConfig{
		UploadPath:        dir,
		MaxImageSize:      maxSize,
		AllowedImageTypes: []string{"png", "jpg"},
	}, newActivity(db))
	svc.now = func() time.Time { return time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC) }
	return svc, dir, createUser(t, db, "alice", models.RoleUser)
}

func TestUploadFileStoresUnderYearMonth(t *testing.T) {
	svc, dir, user := newFileService(t, 1024)

	attachment, err := svc.UploadFile(user, strings.NewReader("image-bytes"), "Screen Shot.PNG", "image/png")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^/uploads/2025/02/[0-9a-f-]{36}\.PNG$`), attachment.URL)
	assert.Equal(t, int64(len("image-bytes")), attachment.FileSize)
	assert.Equal(t, "Screen Shot.PNG", attachment.OriginalFilename)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(attachment.FilePath)))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestUploadFileRejectsBadInput(t *testing.T) {
	svc, dir, user := newFileService(t, 4)

	_, err := svc.UploadFile(user, strings.NewReader("x"), "script.sh", "")
	assert.True(t, errs.Is(err, errs.KindBadRequest))

	_, err = svc.UploadFile(user, strings.NewReader("too large"), "big.png", "image/png")
	assert.True(t, errs.Is(err, errs.KindBadRequest))

	// 超限的文件不会留在磁盘上
	var files []string
	filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	assert.Empty(t, files)

	_, err = svc.UploadFile(nil, strings.NewReader("x"), "a.png", "")
	assert.True(t, errs.Is(err, errs.KindUnauthorized))
}
