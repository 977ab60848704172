package db

import (
	"time"
)

// Single-character status codes, kept as stored on disk for row compatibility.
const (
	StatusActive   = "A"
	StatusInactive = "I"

	InterestPending  = "P"
	InterestAccepted = "A"
	InterestDeclined = "D"

	RoleUser  = "U"
	RoleAdmin = "A"

	ProfilePhotoYes = "Y"
	ProfilePhotoNo  = "N"
)

// User carries the credentials; the username doubles as the phone number
// submitted at registration.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:1;not null;default:U" json:"role"`

	Account   *UserAccount `gorm:"foreignKey:ID;references:ID" json:"account,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// UserAccount is the public profile attached 1:1 to a User (same primary key).
//
// Status is one of StatusActive/StatusInactive; only active accounts may
// send or answer interests and receive uploads.
type UserAccount struct {
	ID             uint64 `gorm:"primaryKey" json:"id"`
	PcID           string `gorm:"uniqueIndex;size:36;not null" json:"pc_id"`
	Email          string `gorm:"size:128" json:"email"`
	Phone          string `gorm:"size:32;not null" json:"phone"`
	City           string `gorm:"size:64;index" json:"city"`
	Status         string `gorm:"size:1;not null;default:A;index" json:"status"`
	ProfileUpdated bool   `gorm:"default:false" json:"profile_updated"`

	Images    []Image   `gorm:"foreignKey:UserAccountID" json:"images,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Image holds the uploaded bytes plus metadata. IsProfilePhoto is a plain
// flag ("Y"/"N"); nothing enforces a single profile photo per account.
type Image struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserAccountID  uint64 `gorm:"index;not null" json:"user_account_id"`
	Data           []byte `gorm:"type:mediumblob" json:"-"`
	Name           string `gorm:"size:255;not null" json:"name"`
	ContentType    string `gorm:"size:128" json:"content_type"`
	IsProfilePhoto string `gorm:"size:1;not null;default:N" json:"is_profile_photo"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Interest is a directed proposal from UserID to InterestedOn.
//
// Rows are created Pending and transition exactly once to Accepted or
// Declined; they are never deleted. The unique index on (user_id,
// interested_on) backs the any-status duplicate guard.
type Interest struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint64 `gorm:"not null;uniqueIndex:idx_source_target,priority:1;index:idx_target_status,priority:2" json:"user_id"`
	InterestedOn uint64 `gorm:"not null;uniqueIndex:idx_source_target,priority:2;index:idx_target_status,priority:1" json:"interested_on"`
	Status       string `gorm:"size:1;not null;default:P;index:idx_target_status,priority:3" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
