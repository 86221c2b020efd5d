// Package messages holds the fixed human-readable detail strings returned
// by the API. Keeping them in one place keeps handlers and tests in sync.
package messages

const (
	AccountExists       = "Account is already exist"
	InvalidEmail        = "Invalid email"
	InvalidPassword     = "Invalid password"
	InvalidRefreshToken = "Invalid refresh token"
	InvalidScope        = "Invalid scope for token"
	InvalidCredentials  = "Could not validate credentials"
	EmailNotConfirmed   = "Email not confirmed"

	VerificationErr          = "Verification error"
	VerifiedAlready          = "Your email is already confirmed"
	VerificationComplete     = "Email confirmed"
	VerificationTokenInvalid = "Invalid token for email verification"
	VerificationCheckEmail   = "Check your email for confirmation"

	OperationForbidden = "Operation forbidden"
	ImageNotFound      = "Image not found"
	TagNotFound        = "Tag not found"
	CommentNotFound    = "Comment not found"
	TagLimitReached    = "Only five tags allowed"
	TagExists          = "Tag already exists"
	UnreadableImage    = "Unreadable image file"
	InternalError      = "Internal server error"
)
