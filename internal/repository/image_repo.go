package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/db"
)

// ImageRepository provides data access methods for the Image model.
// Image rows are created on upload and never updated or deleted here.
type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new repository bound to the given DB connection.
func NewImageRepository(database *gorm.DB) *ImageRepository {
	return &ImageRepository{db: database}
}

// Create persists the metadata record for an uploaded image.
func (r *ImageRepository) Create(ctx context.Context, image *db.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// AllByAccount returns every image owned by the account.
func (r *ImageRepository) AllByAccount(ctx context.Context, accountID uint64) ([]db.Image, error) {
	var images []db.Image
	err := r.db.WithContext(ctx).
		Where("user_account_id = ?", accountID).
		Order("created_at DESC").
		Find(&images).Error
	return images, err
}

// ProfilePhotoByAccount returns the most recent image flagged as the profile
// photo. Multiple flagged rows are possible; the newest wins.
func (r *ImageRepository) ProfilePhotoByAccount(ctx context.Context, accountID uint64) (*db.Image, error) {
	var image db.Image
	err := r.db.WithContext(ctx).
		Where("user_account_id = ? AND is_profile_photo = ?", accountID, db.ProfilePhotoYes).
		Order("created_at DESC").
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}
