package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/perfectcherry/cherry-server/internal/db"
)

// InterestRepository provides data access methods for the Interest model.
// It encapsulates all queries of the propose/accept/decline workflow.
type InterestRepository struct {
	db *gorm.DB
}

// NewInterestRepository creates a new repository bound to the given DB connection.
func NewInterestRepository(database *gorm.DB) *InterestRepository {
	return &InterestRepository{db: database}
}

// FindByID loads a single interest row.
func (r *InterestRepository) FindByID(ctx context.Context, id uint64) (*db.Interest, error) {
	var interest db.Interest
	err := r.db.WithContext(ctx).First(&interest, id).Error
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

// Exists reports whether any interest row exists for the exact
// (source, target) pair, regardless of its status. A declined interest
// still blocks a re-send.
func (r *InterestRepository) Exists(ctx context.Context, sourceID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Interest{}).
		Where("user_id = ? AND interested_on = ?", sourceID, targetID).
		Count(&count).Error
	return count > 0, err
}

// Create persists a new interest row.
func (r *InterestRepository) Create(ctx context.Context, interest *db.Interest) error {
	return r.db.WithContext(ctx).Create(interest).Error
}

// UpdateStatus overwrites the status unconditionally and bumps the updated
// timestamp.
//
// The current status is deliberately not re-checked first: concurrent
// accept+decline on the same id race and the last write wins. Terminal
// states are therefore overwritable by the other terminal state.
func (r *InterestRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return r.db.WithContext(ctx).
		Model(&db.Interest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// SentTo returns the ids of users the given user has a pending interest in.
func (r *InterestRepository) SentTo(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluck(ctx, "interested_on", "user_id = ? AND status = ?", userID, db.InterestPending)
}

// ReceivedFrom returns the ids of users with a pending interest in the given user.
func (r *InterestRepository) ReceivedFrom(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluck(ctx, "user_id", "interested_on = ? AND status = ?", userID, db.InterestPending)
}

// AcceptedByMe returns the ids of users whose interest the given user accepted.
func (r *InterestRepository) AcceptedByMe(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluck(ctx, "user_id", "interested_on = ? AND status = ?", userID, db.InterestAccepted)
}

// AcceptedByThem returns the ids of users who accepted the given user's interest.
func (r *InterestRepository) AcceptedByThem(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluck(ctx, "interested_on", "user_id = ? AND status = ?", userID, db.InterestAccepted)
}

// DeclinedByMe returns the ids of users whose interest the given user declined.
func (r *InterestRepository) DeclinedByMe(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluck(ctx, "user_id", "interested_on = ? AND status = ?", userID, db.InterestDeclined)
}

// DeclinedByThem returns the ids of users who declined the given user's interest.
func (r *InterestRepository) DeclinedByThem(ctx context.Context, userID uint64) ([]uint64, error) {
	return r.pluck(ctx, "interested_on", "user_id = ? AND status = ?", userID, db.InterestDeclined)
}

// CountPendingFor counts interests awaiting the given user's answer.
// Backs the cached pending counter (DB is the fallback on a cache miss).
func (r *InterestRepository) CountPendingFor(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Interest{}).
		Where("interested_on = ? AND status = ?", userID, db.InterestPending).
		Count(&count).Error
	return count, err
}

func (r *InterestRepository) pluck(ctx context.Context, column, cond string, args ...interface{}) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.Interest{}).
		Where(cond, args...).
		Order("updated_at DESC").
		Pluck(column, &ids).Error
	return ids, err
}
