package image_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/app"
	"github.com/perfectcherry/cherry-server/internal/cache"
	"github.com/perfectcherry/cherry-server/internal/config"
	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/mail"
	"github.com/perfectcherry/cherry-server/internal/messages"
	"github.com/perfectcherry/cherry-server/internal/service/image"
	"github.com/perfectcherry/cherry-server/internal/storage"
)

type nopMailer struct{}

func (nopMailer) SendInterestMail(mail.InterestEvent, string) error { return nil }
func (nopMailer) SendPasswordResetMail(string) error                { return nil }
func (nopMailer) SendTempPasswordMail(string, string) error         { return nil }

// fileHeader builds a parsed multipart file the way gin hands it to the
// service.
func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("images", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["images"], 1)
	return form.File["images"][0]
}

// setupService wires the image service onto an isolated DB and two temp
// upload directories. Returns the dirs so tests can inspect the dual write.
func setupService(t *testing.T) (*image.Service, *app.AppContext, string, string) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.User{}, &db.UserAccount{}, &db.Image{}, &db.Interest{}))

	accounts := []db.UserAccount{
		{ID: 1, PcID: "pc-1", Phone: "5550001", Status: db.StatusActive},
		{ID: 2, PcID: "pc-2", Phone: "5550002", Status: db.StatusInactive},
	}
	require.NoError(t, dbase.Create(&accounts).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	usersDir := t.TempDir()
	uploadDir := t.TempDir()

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Upload.UsersDir = usersDir
	cfg.Upload.Dir = uploadDir

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(dbase, cache.NewRedisCache(cfg), nopMailer{}, storage.NewDiskStore(cfg), logger)
	return image.NewService(appCtx), appCtx, usersDir, uploadDir
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestUploadProfilePhoto(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, usersDir, uploadDir := setupService(t)

	result, err := svc.UploadProfilePhoto(ctx, fileHeader(t, "me.jpg", "jpegbytes"), 1)
	require.NoError(t, err)
	assert.Equal(t, 200, result.Status)
	assert.Equal(t, fmt.Sprintf(messages.ImageUploadSuccessFmt, "me.jpg"), result.Message)

	// both copies on disk
	archived, err := os.ReadFile(filepath.Join(usersDir, "me.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), archived)
	served, err := os.ReadFile(filepath.Join(uploadDir, "me.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), served)

	// metadata row flagged as the profile photo
	var row db.Image
	require.NoError(t, appCtx.DB.First(&row).Error)
	assert.Equal(t, uint64(1), row.UserAccountID)
	assert.Equal(t, db.ProfilePhotoYes, row.IsProfilePhoto)
	assert.Equal(t, []byte("jpegbytes"), row.Data)
}

func TestUpload_TraversalRejectedBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, usersDir, uploadDir := setupService(t)

	// Sanitize fires before the file is even opened
	bad := &multipart.FileHeader{Filename: "../../etc/passwd.png"}
	results, err := svc.UploadImages(ctx, []*multipart.FileHeader{bad}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 400, results[0].Status)
	assert.Equal(t, fmt.Sprintf(messages.InvalidImageNameFmt, "../../etc/passwd.png"), results[0].Message)

	assert.Empty(t, dirEntries(t, usersDir))
	assert.Empty(t, dirEntries(t, uploadDir))

	var count int64
	require.NoError(t, appCtx.DB.Model(&db.Image{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpload_SiblingsFailIndependently(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _, uploadDir := setupService(t)

	files := []*multipart.FileHeader{
		{Filename: "../sneaky.png"},
		fileHeader(t, "ok.png", "pngbytes"),
	}
	results, err := svc.UploadImages(ctx, files, 1)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 400, results[0].Status)
	assert.Equal(t, 200, results[1].Status)

	_, err = os.Stat(filepath.Join(uploadDir, "ok.png"))
	assert.NoError(t, err)

	var count int64
	require.NoError(t, appCtx.DB.Model(&db.Image{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpload_DuplicateNameConflictsInArchive(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _, _ := setupService(t)

	results, err := svc.UploadImages(ctx, []*multipart.FileHeader{fileHeader(t, "twin.png", "v1")}, 1)
	require.NoError(t, err)
	require.Equal(t, 200, results[0].Status)

	// the archive dir uses an exclusive create, the same name cannot land twice
	results, err = svc.UploadImages(ctx, []*multipart.FileHeader{fileHeader(t, "twin.png", "v2")}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 500, results[0].Status)
	assert.Equal(t, fmt.Sprintf(messages.ImageUploadFailedFmt, "twin.png"), results[0].Message)

	var count int64
	require.NoError(t, appCtx.DB.Model(&db.Image{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpload_InactiveAccountRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, usersDir, _ := setupService(t)

	_, err := svc.UploadImages(ctx, []*multipart.FileHeader{fileHeader(t, "ok.png", "x")}, 2)
	require.Error(t, err)
	assert.Equal(t, messages.NoActiveUser, err.Error())

	_, err = svc.UploadProfilePhoto(ctx, fileHeader(t, "ok.png", "x"), 99)
	require.Error(t, err)
	assert.Equal(t, messages.NoActiveUser, err.Error())

	assert.Empty(t, dirEntries(t, usersDir))
}

func TestProfilePhotoByUser_NewestFlaggedWins(t *testing.T) {
	ctx := context.Background()
	svc, appCtx, _, _ := setupService(t)

	older := db.Image{UserAccountID: 1, Name: "old.jpg", IsProfilePhoto: db.ProfilePhotoYes,
		CreatedAt: time.Now().UTC().Add(-time.Hour)}
	newer := db.Image{UserAccountID: 1, Name: "new.jpg", IsProfilePhoto: db.ProfilePhotoYes}
	gallery := db.Image{UserAccountID: 1, Name: "trip.jpg", IsProfilePhoto: db.ProfilePhotoNo}
	require.NoError(t, appCtx.DB.Create(&older).Error)
	require.NoError(t, appCtx.DB.Create(&newer).Error)
	require.NoError(t, appCtx.DB.Create(&gallery).Error)

	photo, err := svc.ProfilePhotoByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new.jpg", photo.Name)

	all, err := svc.ImagesByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// nothing uploaded for this user yet
	_, err = svc.ProfilePhotoByUser(ctx, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
