// Package image implements the profile photo and gallery upload pipeline.
package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/app"
	"github.com/perfectcherry/cherry-server/internal/apperr"
	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/messages"
	"github.com/perfectcherry/cherry-server/internal/repository"
	"github.com/perfectcherry/cherry-server/internal/storage"
)

// Result is the per-file outcome of an upload. Files in one batch succeed or
// fail independently.
type Result struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

// Service contains the upload business logic on top of the repository and
// disk store.
type Service struct {
	appCtx   *app.AppContext
	images   *repository.ImageRepository
	accounts *repository.UserAccountRepository
}

// NewService creates the image service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		images:   repository.NewImageRepository(appCtx.DB),
		accounts: repository.NewUserAccountRepository(appCtx.DB),
	}
}

// UploadProfilePhoto stores a single image flagged as the account's profile
// photo. The flag is not a singleton: an earlier profile photo stays flagged.
func (s *Service) UploadProfilePhoto(ctx context.Context, file *multipart.FileHeader, userID uint64) (Result, error) {
	account, err := s.activeAccount(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	return s.upload(ctx, file, account, db.ProfilePhotoYes), nil
}

// UploadImages stores a batch of gallery images. The returned slice is
// ordered like the input; a failed file never aborts its siblings.
func (s *Service) UploadImages(ctx context.Context, files []*multipart.FileHeader, userID uint64) ([]Result, error) {
	account, err := s.activeAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, s.upload(ctx, file, account, db.ProfilePhotoNo))
	}
	return results, nil
}

// ImagesByUser returns every image owned by the user's account.
func (s *Service) ImagesByUser(ctx context.Context, userID uint64) ([]db.Image, error) {
	return s.images.AllByAccount(ctx, userID)
}

// ProfilePhotoByUser returns the user's current profile photo.
// A missing photo surfaces as the generic record-not-found reply.
func (s *Service) ProfilePhotoByUser(ctx context.Context, userID uint64) (*db.Image, error) {
	return s.images.ProfilePhotoByAccount(ctx, userID)
}

// upload is the per-file pipeline: sanitize, dual disk write, metadata row.
//
// Order matters: a traversal token rejects the file before anything touches
// disk or DB; the metadata row is inserted only after both writes succeed.
// The first (exclusive) write is not rolled back if a later step fails.
func (s *Service) upload(ctx context.Context, file *multipart.FileHeader, account *db.UserAccount, profileFlag string) Result {
	name, err := storage.Sanitize(file.Filename)
	if err != nil {
		s.appCtx.Logger.Warn("upload rejected", "filename", file.Filename, "err", err)
		return Result{Status: 400, Message: fmt.Sprintf(messages.InvalidImageNameFmt, file.Filename)}
	}

	data, err := readAll(file)
	if err != nil {
		return s.failed(name, err)
	}

	if err := s.appCtx.Store.Save(name, data); err != nil {
		return s.failed(name, err)
	}

	img := db.Image{
		UserAccountID:  account.ID,
		Data:           data,
		Name:           name,
		ContentType:    file.Header.Get("Content-Type"),
		IsProfilePhoto: profileFlag,
	}
	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewImageRepository(tx).Create(ctx, &img)
	})
	if err != nil {
		return s.failed(name, err)
	}

	s.appCtx.Logger.Info("image uploaded", "account", account.ID, "name", name, "profile", profileFlag)
	return Result{Status: 200, Message: fmt.Sprintf(messages.ImageUploadSuccessFmt, name)}
}

func (s *Service) failed(name string, err error) Result {
	s.appCtx.Logger.Error("image upload failed", "name", name, "err", err)
	return Result{Status: 500, Message: fmt.Sprintf(messages.ImageUploadFailedFmt, name)}
}

func (s *Service) activeAccount(ctx context.Context, userID uint64) (*db.UserAccount, error) {
	account, err := s.accounts.FindActive(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Inactive(messages.NoActiveUser)
	} else if err != nil {
		return nil, err
	}
	return account, nil
}

func readAll(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}
