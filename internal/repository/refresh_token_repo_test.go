package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"

	"bookpoint/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: ":memory:"}),
		&gorm.Config{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.RefreshToken{}))
	return db
}

func seedToken(t *testing.T, db *gorm.DB, tok string, expiresAt time.Time) *domain.RefreshToken {
	user := &domain.User{Email: tok + "@example.com", PasswordHash: "x", Role: domain.RoleClient}
	require.NoError(t, db.Create(user).Error)

	row := &domain.RefreshToken{UserID: user.ID, Token: tok, ExpiresAt: expiresAt}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestTryConsume_SucceedsOnce(t *testing.T) {
	db := testDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	seedToken(t, db, "tok-1", time.Now().Add(time.Hour))

	consumed, err := repo.TryConsume(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, consumed.IsRevoked)

	// second consume must fail without mutating anything
	_, err = repo.TryConsume(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrTokenConsumed)
}

func TestTryConsume_UnknownToken(t *testing.T) {
	db := testDB(t)
	repo := NewRefreshTokenRepository(db)

	_, err := repo.TryConsume(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTokenConsumed)
}

func TestRevoke_ReportsNoop(t *testing.T) {
	db := testDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	seedToken(t, db, "tok-2", time.Now().Add(time.Hour))

	ok, err := repo.Revoke(ctx, "tok-2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Revoke(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, ok, "revoking an already-revoked token is a no-op")
}

func TestCreate_DuplicateTokenRejected(t *testing.T) {
	db := testDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	first := seedToken(t, db, "tok-3", time.Now().Add(time.Hour))

	dup := &domain.RefreshToken{
		UserID:    first.UserID,
		Token:     "tok-3",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	err := repo.Create(ctx, dup)
	assert.Error(t, err, "token column uniqueness is mandatory")
}

func TestDeleteExpired(t *testing.T) {
	db := testDB(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	seedToken(t, db, "live", time.Now().Add(time.Hour))
	seedToken(t, db, "expired", time.Now().Add(-time.Hour))

	old := seedToken(t, db, "long-revoked", time.Now().Add(time.Hour))
	require.NoError(t, db.Model(&domain.RefreshToken{}).Where("id = ?", old.ID).Updates(map[string]any{
		"is_revoked": true,
		"created_at": time.Now().AddDate(0, 0, -60),
	}).Error)

	deleted, err := repo.DeleteExpired(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining []domain.RefreshToken
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live", remaining[0].Token)
}
