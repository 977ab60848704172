package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/perfectcherry/cherry-server/internal/config"
)

var (
	jwtSecret string
	tokenTTL  = 168 * time.Hour
)

// Init wires the signing secret and token lifetime from config.
func Init(cfg *config.Config) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	jwtSecret = cfg.JWT.Secret
	if cfg.JWT.TTLHours > 0 {
		tokenTTL = time.Duration(cfg.JWT.TTLHours) * time.Hour
	}
	return nil
}

// GenerateJWT issues a token carrying the user id and role claim the
// middleware guard checks.
func GenerateJWT(userID uint64, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifyJWT parses and validates a token string.
func VerifyJWT(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	return token, nil
}
