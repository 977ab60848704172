package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/db"
)

// UserRepository provides data access methods for the User model and its
// attached account.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// FindByID loads a user together with its account.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Preload("Account").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername loads a user by its unique username (the phone number
// submitted at registration).
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername reports whether a username is already registered.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// Create persists a user and its linked account in one insert.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdatePassword stores a new password hash and bumps the account's
// updated timestamp, mirroring the write the reset flows perform.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint64, hash string) error {
	if err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&db.UserAccount{}).
		Where("id = ?", userID).
		Update("updated_at", time.Now().UTC()).Error
}

// Delete removes a user, its account and its images. Interest rows are kept;
// they are never deleted by this system.
func (r *UserRepository) Delete(ctx context.Context, userID uint64) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("user_account_id = ?", userID).Delete(&db.Image{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id = ?", userID).Delete(&db.UserAccount{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", userID).Delete(&db.User{}).Error
}
