// Package account implements profile updates, account lifecycle and the
// people-near-me discovery read.
package account

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/app"
	"github.com/perfectcherry/cherry-server/internal/apperr"
	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/messages"
	"github.com/perfectcherry/cherry-server/internal/repository"
)

// UpdateRequest is the payload of PATCH /userAccount/update.
// Zero-valued fields are left untouched.
type UpdateRequest struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	City   string `json:"city"`
}

// Service contains the account business logic.
type Service struct {
	appCtx   *app.AppContext
	accounts *repository.UserAccountRepository
	images   *repository.ImageRepository
}

// NewService creates the account service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		accounts: repository.NewUserAccountRepository(appCtx.DB),
		images:   repository.NewImageRepository(appCtx.DB),
	}
}

// Update applies the submitted profile fields and marks the profile as
// updated.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (string, error) {
	if req.UserID == 0 {
		return "", apperr.Validation(messages.NoUser)
	}

	account, err := s.accounts.FindByID(ctx, req.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFound(messages.NoUser)
	} else if err != nil {
		return "", err
	}

	if v := strings.TrimSpace(req.Email); v != "" {
		account.Email = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		account.Phone = v
	}
	if v := strings.TrimSpace(req.City); v != "" {
		account.City = v
	}
	account.ProfileUpdated = true

	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewUserAccountRepository(tx).Save(ctx, account)
	})
	if err != nil {
		return "", err
	}

	s.appCtx.Logger.Info("account updated", "id", account.ID)
	return messages.AccountUpdated, nil
}

// AllDataByID returns the account with every image attached.
func (s *Service) AllDataByID(ctx context.Context, userID uint64) (*db.UserAccount, error) {
	account, err := s.accounts.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(messages.NoUser)
	}
	return account, err
}

// DataByID returns the account shaped down to its profile photo only.
func (s *Service) DataByID(ctx context.Context, userID uint64) (*db.UserAccount, error) {
	account, err := s.AllDataByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	account.Images = profilePhotosOnly(account.Images)
	return account, nil
}

// Activate flips the account status to Active.
func (s *Service) Activate(ctx context.Context, userID uint64) (string, error) {
	return s.setStatus(ctx, userID, db.StatusActive, messages.AccountActivated)
}

// Deactivate flips the account status to Inactive. An inactive account can
// no longer send or answer interests, nor receive uploads.
func (s *Service) Deactivate(ctx context.Context, userID uint64) (string, error) {
	return s.setStatus(ctx, userID, db.StatusInactive, messages.AccountDeactivated)
}

// PeopleNearMe returns the active accounts sharing the requester's city,
// excluding the requester, each shaped to its profile photo.
func (s *Service) PeopleNearMe(ctx context.Context, userID uint64) ([]db.UserAccount, error) {
	me, err := s.accounts.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(messages.NoUser)
	} else if err != nil {
		return nil, err
	}
	if me.City == "" {
		return nil, nil
	}

	nearby, err := s.accounts.FindActiveByCity(ctx, me.City, userID)
	if err != nil {
		return nil, err
	}
	for i := range nearby {
		nearby[i].Images = profilePhotosOnly(nearby[i].Images)
	}
	return nearby, nil
}

func (s *Service) setStatus(ctx context.Context, userID uint64, status, okMsg string) (string, error) {
	err := s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewUserAccountRepository(tx).SetStatus(ctx, userID, status)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFound(messages.NoUser)
	} else if err != nil {
		return "", err
	}

	s.appCtx.Logger.Info("account status changed", "id", userID, "status", status)
	return okMsg, nil
}

func profilePhotosOnly(images []db.Image) []db.Image {
	var kept []db.Image
	for _, img := range images {
		if img.IsProfilePhoto == db.ProfilePhotoYes {
			kept = append(kept, img)
		}
	}
	return kept
}
