package repository

import (
	"context"
	"errors"
	"time"

	"bookpoint/internal/domain"

	"gorm.io/gorm"
)

// ErrTokenConsumed is returned by TryConsume when the row was already revoked,
// including the case where a concurrent consume won the race.
var ErrTokenConsumed = errors.New("refresh token already consumed")

// RefreshTokenRepository provides DB access for refresh tokens.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TryConsume flips is_revoked from false to true for the matching row.
//
// The guard lives in the WHERE clause so the transition is a single
// conditional UPDATE at the storage layer; RowsAffected is the success
// signal. Two concurrent consumes of the same token cannot both see
// RowsAffected == 1.
func (r *RefreshTokenRepository) TryConsume(ctx context.Context, token string) (*domain.RefreshToken, error) {
	res := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", token, false).
		Update("is_revoked", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTokenConsumed
	}
	return r.GetByToken(ctx, token)
}

// Revoke unconditionally revokes the token. It reports false when nothing
// changed, i.e. the row did not exist or was already revoked.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", token, false).
		Update("is_revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteExpired removes rows that can never be used again: past expiry, or
// revoked long enough ago that nothing audits them anymore. Housekeeping
// only; the rotation protocol never deletes rows.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, revokedBefore time.Time) (int64, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR (is_revoked = ? AND created_at < ?)", now, true, revokedBefore).
		Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}
