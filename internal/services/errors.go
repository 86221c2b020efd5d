package services

import (
	"errors"

	"photoshare/internal/messages"
)

// Sentinel errors carrying the fixed detail strings the API answers with.
// Handlers map them to status codes with errors.Is.
var (
	ErrAccountExists       = errors.New(messages.AccountExists)
	ErrInvalidEmail        = errors.New(messages.InvalidEmail)
	ErrInvalidPassword     = errors.New(messages.InvalidPassword)
	ErrEmailNotConfirmed   = errors.New(messages.EmailNotConfirmed)
	ErrInvalidRefreshToken = errors.New(messages.InvalidRefreshToken)
	ErrInvalidScope        = errors.New(messages.InvalidScope)
	ErrInvalidCredentials  = errors.New(messages.InvalidCredentials)
	ErrInvalidEmailToken   = errors.New(messages.VerificationTokenInvalid)
	ErrVerificationFailed  = errors.New(messages.VerificationErr)
	ErrForbidden           = errors.New(messages.OperationForbidden)
	ErrTagLimitReached     = errors.New(messages.TagLimitReached)
	ErrUnreadableImage     = errors.New(messages.UnreadableImage)
)
