package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookpoint/internal/domain"
	"bookpoint/internal/pkg/token"
	"bookpoint/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service contains all business logic for the session lifecycle: issuing
// token pairs, rotating refresh tokens and revoking them.
type Service struct {
	users      UserRepositoryInterface
	tokens     RefreshTokenRepositoryInterface
	signer     TokenSigner
	refreshTTL time.Duration
}

func NewService(
	users UserRepositoryInterface,
	tokens RefreshTokenRepositoryInterface,
	signer TokenSigner,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		signer:     signer,
		refreshTTL: refreshTTL,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.RoleClient,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	user.PasswordHash = ""
	return user, pair, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	user.PasswordHash = ""
	return user, pair, nil
}

// Refresh rotates the presented refresh token. The checks run in a fixed
// order: existence, expiry, revocation, then the atomic consume. At most one
// of any number of concurrent calls on the same token gets past the consume;
// the rest see ErrRefreshTokenRevoked exactly like a replayed token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrTokenRequired
	}

	current, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	now := time.Now()
	if current.IsExpired(now) {
		// Expired rows are refused as-is, without flipping is_revoked.
		return nil, ErrRefreshTokenExpired
	}
	if current.IsRevoked {
		return nil, ErrRefreshTokenRevoked
	}

	consumed, err := s.tokens.TryConsume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrTokenConsumed) {
			return nil, ErrRefreshTokenRevoked
		}
		return nil, err
	}

	// Claims come from the user's current state, not from the old token.
	user, err := s.users.GetByID(ctx, consumed.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Logout revokes the presented refresh token. Expiry does not block the
// explicit revoke; an already-revoked token is reported, not silently
// accepted. The paired access token stays valid until its natural expiry.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrTokenRequired
	}

	current, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	if current.IsRevoked {
		return ErrAlreadyRevoked
	}

	ok, err := s.tokens.Revoke(ctx, refreshToken)
	if err != nil {
		return err
	}
	if !ok {
		// Lost a race with a concurrent revoke or rotation.
		return ErrAlreadyRevoked
	}
	return nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// issueSession mints one access token and one refresh token row for an
// already-authenticated user.
func (s *Service) issueSession(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.signer.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	opaque, err := token.NewOpaque()
	if err != nil {
		return nil, err
	}

	row := &domain.RefreshToken{
		UserID:    user.ID,
		Token:     opaque,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.tokens.Create(ctx, row); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: opaque,
		ExpiresIn:    int64(s.signer.TTL().Seconds()),
	}, nil
}
