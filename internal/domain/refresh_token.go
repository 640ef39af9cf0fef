package domain

import "time"

// RefreshToken is the server-side record of an issued refresh token.
//
// The token column is the opaque value presented by the client and acts as
// the lookup key; the unique index is mandatory, not cosmetic. IsRevoked
// moves from false to true exactly once and is never reset. Rows are never
// deleted by the session protocol itself (cmd/token_cleanup sweeps them).
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Token string `json:"-" gorm:"size:128;uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
	IsRevoked bool      `json:"is_revoked" gorm:"not null;default:false"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
