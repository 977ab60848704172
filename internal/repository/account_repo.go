package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/db"
)

// UserAccountRepository provides data access methods for the UserAccount
// model, including the active-only lookups the interest and upload flows
// gate on.
type UserAccountRepository struct {
	db *gorm.DB
}

// NewUserAccountRepository creates a new repository bound to the given DB connection.
func NewUserAccountRepository(database *gorm.DB) *UserAccountRepository {
	return &UserAccountRepository{db: database}
}

// FindByID loads an account with all of its images.
func (r *UserAccountRepository) FindByID(ctx context.Context, id uint64) (*db.UserAccount, error) {
	var account db.UserAccount
	err := r.db.WithContext(ctx).
		Preload("Images").
		First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindActive loads an account only if its status is Active.
// Returns gorm.ErrRecordNotFound for missing and inactive accounts alike.
func (r *UserAccountRepository) FindActive(ctx context.Context, id uint64) (*db.UserAccount, error) {
	var account db.UserAccount
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, db.StatusActive).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// IsActive reports whether an active account exists for the id.
func (r *UserAccountRepository) IsActive(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.UserAccount{}).
		Where("id = ? AND status = ?", id, db.StatusActive).
		Count(&count).Error
	return count > 0, err
}

// FindAllByIDs batch-loads accounts with their images, preserving no
// particular order.
func (r *UserAccountRepository) FindAllByIDs(ctx context.Context, ids []uint64) ([]db.UserAccount, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var accounts []db.UserAccount
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("id IN ?", ids).
		Find(&accounts).Error
	return accounts, err
}

// FindActiveByCity returns every active account in the city except the
// requester's own.
func (r *UserAccountRepository) FindActiveByCity(ctx context.Context, city string, excludeID uint64) ([]db.UserAccount, error) {
	var accounts []db.UserAccount
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("city = ? AND status = ? AND id <> ?", city, db.StatusActive, excludeID).
		Find(&accounts).Error
	return accounts, err
}

// Save persists the full account row.
func (r *UserAccountRepository) Save(ctx context.Context, account *db.UserAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// SetStatus flips the status flag and bumps the updated timestamp.
func (r *UserAccountRepository) SetStatus(ctx context.Context, id uint64, status string) error {
	res := r.db.WithContext(ctx).
		Model(&db.UserAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
