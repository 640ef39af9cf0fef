package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrTokenRequired is reported before any storage access when the
	// presented refresh token is blank.
	ErrTokenRequired = errors.New("refresh token required")

	// ErrInvalidRefreshToken means no such token exists in the store.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRefreshTokenExpired means the token exists, is not revoked, but its
	// expiry has passed.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrRefreshTokenRevoked covers replay of a rotated-away token and losing
	// a rotation race; the two are intentionally indistinguishable.
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")

	// ErrAlreadyRevoked is logout's answer when nothing changed.
	ErrAlreadyRevoked = errors.New("refresh token already revoked")
)
