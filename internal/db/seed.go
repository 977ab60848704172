package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCities = []string{"London", "Manchester", "Bristol", "Leeds"}

// SeedTestData resets the database and populates it with demo users and
// interests.
//
// Behavior:
//  1. Clears users, user_accounts, images and interests.
//  2. Creates 20 users with hashed passwords and active accounts spread
//     over a handful of cities.
//  3. Generates interests between them, leaving a mix of pending,
//     accepted and declined rows.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"interests", "images", "user_accounts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE interests AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'interests', 'images')")
	}

	log.Println("Cleared existing data")

	// --- Users + accounts ---
	for i := 1; i <= 20; i++ {
		phone := fmt.Sprintf("55500%04d", i)

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := User{
			Username:     phone,
			PasswordHash: string(hash),
			Role:         RoleUser,
			Account: &UserAccount{
				PcID:   uuid.NewString(),
				Email:  fmt.Sprintf("user%d@example.com", i),
				Phone:  phone,
				City:   seedCities[i%len(seedCities)],
				Status: StatusActive,
			},
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// --- Interests ---
	statuses := []string{InterestPending, InterestPending, InterestAccepted, InterestDeclined}
	for source := uint64(1); source <= 20; source++ {
		for j := 0; j < 5; j++ {
			target := uint64(r.Intn(20) + 1)
			if target == source {
				continue
			}
			interest := Interest{
				UserID:       source,
				InterestedOn: target,
				Status:       statuses[r.Intn(len(statuses))],
			}
			// unique (source, target) pairs only; duplicates are skipped
			if err := db.Create(&interest).Error; err != nil {
				continue
			}
		}
	}
	log.Println("Seeded interests.")

	return nil
}
