// Package messages holds the fixed response strings of the public API.
// Clients match on these, so treat them as part of the wire format.
package messages

const (
	UserCreated           = "User created successfully"
	UserDeleted           = "User deleted successfully"
	UserAlreadyRegistered = "User with given phone number is already registered"
	NoUser                = "No user found with given ID"
	NoActiveUser          = "No active user found with given ID"
	NoActiveInterestedOn  = "No active user found with given interested on ID"
	UsernameRequired      = "Username is required"
	EmailNotAvailable     = "Email address is not available for this user"
	EmailSent             = "Email sent successfully"
	PasswordResetSuccess  = "Password reset successfully"
	OldPasswordIncorrect  = "Old password is incorrect"
	InvalidCredentials    = "Invalid username or password"
	InvalidUserID         = "User ID is invalid"

	AccountUpdated     = "User account updated successfully"
	AccountActivated   = "User account activated successfully"
	AccountDeactivated = "User account deactivated successfully"

	InterestSent        = "Interest sent successfully"
	InterestAccepted    = "Interest accepted successfully"
	InterestDeclined    = "Interest declined successfully"
	InterestNotFound    = "Interest not found"
	InvalidInterestID   = "Interest ID is invalid"
	InterestAlreadySent = "Interest already sent"

	// Per-file upload results; the filename is interpolated.
	ImageUploadSuccessFmt = "Image %s uploaded successfully"
	InvalidImageNameFmt   = "Image name %s is invalid"
	ImageUploadFailedFmt  = "Could not upload image %s"
)
