package services

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrBucketNotFound    = errors.New("bucket not found")
	ErrBucketClosed      = errors.New("bucket is closed")
	ErrNoProjectAccess   = errors.New("no access to project")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrProjectNotFound   = errors.New("project not found")
	ErrUserNotFound      = errors.New("user not found")

	// Identity provider errors.
	ErrInvalidAuthCode  = errors.New("invalid authorization code")
	ErrIdentityProvider = errors.New("identity provider unavailable")
)
