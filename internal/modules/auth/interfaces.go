package auth

import (
	"context"
	"time"

	"bookpoint/internal/domain"
)

// UserRepositoryInterface lists only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepositoryInterface is storage for refresh tokens. TryConsume
// must be atomic at the storage layer: it either wins the false→true
// transition or fails without mutating anything.
type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	TryConsume(ctx context.Context, token string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, token string) (bool, error)
}

// TokenSigner mints self-contained access tokens.
type TokenSigner interface {
	Issue(userID int64, email, role string) (string, error)
	TTL() time.Duration
}
