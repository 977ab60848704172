// Package validation holds the pure field checks applied to incoming request
// bodies. Failures are accumulated into one comma-joined, human-readable
// message so a caller sees every invalid field at once.
package validation

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{5,15}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// messages joins accumulated problems the way the API reports them:
// comma-separated with a closing period.
type messages []string

func (m messages) join() string {
	return strings.Join(m, ", ") + "."
}

// Registration checks the create-user payload.
// Returns "" when the payload is valid.
func Registration(phone, email, password string) string {
	var errs messages
	if strings.TrimSpace(phone) == "" {
		errs = append(errs, "Phone number is required")
	} else if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		errs = append(errs, "Phone number is invalid")
	}
	if strings.TrimSpace(email) != "" && !emailPattern.MatchString(strings.TrimSpace(email)) {
		errs = append(errs, "Email address is invalid")
	}
	if password == "" {
		errs = append(errs, "Password is required")
	} else if len(password) < 5 {
		errs = append(errs, "Password must be at least 5 characters")
	}
	if len(errs) == 0 {
		return ""
	}
	return errs.join()
}

// ResetPassword checks the reset-password payload.
// Returns "" when the payload is valid.
func ResetPassword(userID uint64, oldPassword, newPassword string) string {
	var errs messages
	if userID == 0 {
		errs = append(errs, "User ID is required")
	}
	if oldPassword == "" {
		errs = append(errs, "Old password is required")
	}
	if newPassword == "" {
		errs = append(errs, "New password is required")
	} else if len(newPassword) < 5 {
		errs = append(errs, "New password must be at least 5 characters")
	}
	if len(errs) == 0 {
		return ""
	}
	return errs.join()
}

// Interest checks that both parties of an interest request are present.
// Returns "" when the payload is valid.
func Interest(sourceID, targetID uint64) string {
	var errs messages
	if sourceID == 0 {
		errs = append(errs, "User ID is required")
	}
	if targetID == 0 {
		errs = append(errs, "Interested on ID is required")
	}
	if sourceID != 0 && sourceID == targetID {
		errs = append(errs, "Cannot send an interest to yourself")
	}
	if len(errs) == 0 {
		return ""
	}
	return errs.join()
}
