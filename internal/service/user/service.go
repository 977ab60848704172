// Package user implements registration, login and credential management.
package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/app"
	"github.com/perfectcherry/cherry-server/internal/apperr"
	"github.com/perfectcherry/cherry-server/internal/auth"
	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/messages"
	"github.com/perfectcherry/cherry-server/internal/repository"
	"github.com/perfectcherry/cherry-server/internal/utils/validation"
)

// RegisterRequest is the payload of POST /user/create.
type RegisterRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city"`
}

// ResetPasswordRequest is the payload of PATCH /user/resetPassword.
type ResetPasswordRequest struct {
	UserID      uint64 `json:"user_id"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// LoginRequest is the payload of POST /user/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Service contains the user/credential business logic.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewService creates the user service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// Register validates the payload, rejects already-registered phone numbers
// (the phone doubles as the username) and persists the user together with
// its active account in a single insert. The password is stored only as a
// bcrypt hash.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if msg := validation.Registration(req.Phone, req.Email, req.Password); msg != "" {
		return "", apperr.Validation(msg)
	}

	phone := strings.TrimSpace(req.Phone)
	registered, err := s.users.ExistsByUsername(ctx, phone)
	if err != nil {
		return "", err
	}
	if registered {
		return "", apperr.Duplicate(messages.UserAlreadyRegistered)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := db.User{
		Username:     phone,
		PasswordHash: string(hash),
		Role:         db.RoleUser,
		Account: &db.UserAccount{
			PcID:           uuid.NewString(),
			Email:          strings.TrimSpace(req.Email),
			Phone:          phone,
			City:           strings.TrimSpace(req.City),
			Status:         db.StatusActive,
			ProfileUpdated: false,
		},
	}
	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewUserRepository(tx).Create(ctx, &user)
	})
	if err != nil {
		return "", err
	}

	s.appCtx.Logger.Info("user created", "id", user.ID, "pc_id", user.Account.PcID)
	return messages.UserCreated, nil
}

// Login verifies credentials and issues the token the role guard consumes.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.CredentialMismatch(messages.InvalidCredentials)
	} else if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", apperr.CredentialMismatch(messages.InvalidCredentials)
	}

	token, err := auth.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Delete removes the user, its account and its images.
func (s *Service) Delete(ctx context.Context, userID uint64) (string, error) {
	if _, err := s.users.FindByID(ctx, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFound(messages.NoUser)
	} else if err != nil {
		return "", err
	}

	err := s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewUserRepository(tx).Delete(ctx, userID)
	})
	if err != nil {
		return "", err
	}

	s.appCtx.Logger.Info("user deleted", "id", userID)
	return messages.UserDeleted, nil
}

// ResetPassword accepts a new password only when the submitted old password
// matches the stored hash. A mismatch performs no write.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) (string, error) {
	if msg := validation.ResetPassword(req.UserID, req.OldPassword, req.NewPassword); msg != "" {
		return "", apperr.Validation(msg)
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFound(messages.NoUser)
	} else if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return "", apperr.CredentialMismatch(messages.OldPasswordIncorrect)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewUserRepository(tx).UpdatePassword(ctx, req.UserID, string(hash))
	})
	if err != nil {
		return "", err
	}

	if user.Account != nil && user.Account.Email != "" {
		if err := s.appCtx.Mailer.SendPasswordResetMail(user.Account.Email); err != nil {
			s.appCtx.Logger.Warn("password reset mail delivery failed", "user", req.UserID, "err", err)
		}
	}

	s.appCtx.Logger.Info("password reset", "user", req.UserID)
	return messages.PasswordResetSuccess, nil
}

// ForgotPassword generates a temporary password, persists its hash and
// mails the plaintext to the user. A delivery failure is propagated to the
// caller instead of the success message; the write is already committed
// at that point.
func (s *Service) ForgotPassword(ctx context.Context, username string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", apperr.Validation(messages.UsernameRequired)
	}

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFound(messages.NoUser)
	} else if err != nil {
		return "", err
	}
	if user.Account == nil || user.Account.Email == "" {
		return "", apperr.Validation(messages.EmailNotAvailable)
	}

	// uuid gives enough entropy for a one-time password
	password := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	err = s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		return repository.NewUserRepository(tx).UpdatePassword(ctx, user.ID, string(hash))
	})
	if err != nil {
		return "", err
	}

	if err := s.appCtx.Mailer.SendTempPasswordMail(user.Account.Email, password); err != nil {
		s.appCtx.Logger.Error("temp password mail delivery failed", "user", user.ID, "err", err)
		return "", apperr.Internal("Could not send email: " + err.Error())
	}

	s.appCtx.Logger.Info("temporary password issued", "user", user.ID)
	return messages.EmailSent, nil
}
