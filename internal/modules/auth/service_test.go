package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bookpoint/internal/domain"
	"bookpoint/internal/repository"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// Mock Refresh Token Repository
type mockRefreshTokenRepo struct {
	mock.Mock
}

func (m *mockRefreshTokenRepo) Create(ctx context.Context, t *domain.RefreshToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRefreshTokenRepo) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepo) TryConsume(ctx context.Context, token string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepo) Revoke(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// Mock token signer
type mockSigner struct {
	mock.Mock
}

func (m *mockSigner) Issue(userID int64, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func (m *mockSigner) TTL() time.Duration {
	return 30 * time.Minute
}

func newTestService(users *mockUserRepo, tokens *mockRefreshTokenRepo, signer *mockSigner) *Service {
	return NewService(users, tokens, signer, 7*24*time.Hour)
}

func TestService_Register_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	signer := new(mockSigner)

	userRepo.On("ExistsByEmail", mock.Anything, "test@example.com").Return(false, nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	signer.On("Issue", mock.Anything, "test@example.com", "client").Return("fake-jwt-token", nil)
	refreshRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(userRepo, refreshRepo, signer)

	user, pair, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "securepass123",
	})

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "fake-jwt-token", pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(1800), pair.ExpiresIn)

	userRepo.AssertExpectations(t)
	signer.AssertExpectations(t)
	refreshRepo.AssertExpectations(t)
}

func TestService_Register_EmailExists(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	signer := new(mockSigner)

	userRepo.On("ExistsByEmail", mock.Anything, "exists@example.com").Return(true, nil)

	service := newTestService(userRepo, refreshRepo, signer)

	_, _, err := service.Register(context.Background(), RegisterRequest{
		Email:    "exists@example.com",
		Password: "securepass123",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_Login_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	signer := new(mockSigner)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	existingUser := &domain.User{
		ID:           10,
		Email:        "user@example.com",
		PasswordHash: string(hashed),
		Role:         domain.RoleClient,
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existingUser, nil)
	signer.On("Issue", int64(10), "user@example.com", "client").Return("login-token", nil)
	refreshRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(userRepo, refreshRepo, signer)

	_, pair, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "login-token", pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	signer := new(mockSigner)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	existingUser := &domain.User{
		ID:           10,
		Email:        "user@example.com",
		PasswordHash: string(hashed),
		Role:         domain.RoleClient,
	}

	userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(existingUser, nil)

	service := newTestService(userRepo, refreshRepo, signer)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	signer := new(mockSigner)

	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(userRepo, refreshRepo, signer)

	_, _, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Refresh_Success(t *testing.T) {
	userRepo := new(mockUserRepo)
	refreshRepo := new(mockRefreshTokenRepo)
	signer := new(mockSigner)

	row := &domain.RefreshToken{
		ID:        1,
		UserID:    10,
		Token:     "old-refresh",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	user := &domain.User{ID: 10, Email: "current@example.com", Role: domain.RoleClient}

	refreshRepo.On("GetByToken", mock.Anything, "old-refresh").Return(row, nil)
	refreshRepo.On("TryConsume", mock.Anything, "old-refresh").Return(row, nil)
	userRepo.On("GetByID", mock.Anything, int64(10)).Return(user, nil)
	signer.On("Issue", int64(10), "current@example.com", "client").Return("new-access", nil)
	refreshRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(userRepo, refreshRepo, signer)

	pair, err := service.Refresh(context.Background(), "old-refresh")

	assert.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	assert.NotEqual(t, "old-refresh", pair.RefreshToken)
	refreshRepo.AssertExpectations(t)
}

func TestService_Refresh_BlankToken(t *testing.T) {
	service := newTestService(new(mockUserRepo), new(mockRefreshTokenRepo), new(mockSigner))

	_, err := service.Refresh(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrTokenRequired)
}

func TestService_Refresh_NotFound(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	refreshRepo.On("GetByToken", mock.Anything, "unknown").Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	_, err := service.Refresh(context.Background(), "unknown")

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestService_Refresh_Expired(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	row := &domain.RefreshToken{
		ID:        1,
		UserID:    10,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}
	refreshRepo.On("GetByToken", mock.Anything, "stale").Return(row, nil)

	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	_, err := service.Refresh(context.Background(), "stale")

	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
	// an expired row is refused as-is, never consumed
	refreshRepo.AssertNotCalled(t, "TryConsume", mock.Anything, mock.Anything)
}

func TestService_Refresh_Revoked(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	row := &domain.RefreshToken{
		ID:        1,
		UserID:    10,
		Token:     "replayed",
		ExpiresAt: time.Now().Add(time.Hour),
		IsRevoked: true,
	}
	refreshRepo.On("GetByToken", mock.Anything, "replayed").Return(row, nil)

	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	_, err := service.Refresh(context.Background(), "replayed")

	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
}

func TestService_Refresh_LostRace(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	row := &domain.RefreshToken{
		ID:        1,
		UserID:    10,
		Token:     "contested",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	refreshRepo.On("GetByToken", mock.Anything, "contested").Return(row, nil)
	refreshRepo.On("TryConsume", mock.Anything, "contested").Return(nil, repository.ErrTokenConsumed)

	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	_, err := service.Refresh(context.Background(), "contested")

	// losing the race looks exactly like replay
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
}

func TestService_Logout_Success(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	row := &domain.RefreshToken{
		ID:        1,
		UserID:    10,
		Token:     "active",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	refreshRepo.On("GetByToken", mock.Anything, "active").Return(row, nil)
	refreshRepo.On("Revoke", mock.Anything, "active").Return(true, nil)

	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	err := service.Logout(context.Background(), "active")

	assert.NoError(t, err)
	refreshRepo.AssertExpectations(t)
}

func TestService_Logout_BlankToken(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	err := service.Logout(context.Background(), "")

	assert.ErrorIs(t, err, ErrTokenRequired)
	refreshRepo.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
}

func TestService_Logout_NotFound(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	refreshRepo.On("GetByToken", mock.Anything, "unknown").Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	err := service.Logout(context.Background(), "unknown")

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestService_Logout_AlreadyRevoked(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	row := &domain.RefreshToken{
		ID:        1,
		UserID:    10,
		Token:     "dead",
		ExpiresAt: time.Now().Add(time.Hour),
		IsRevoked: true,
	}
	refreshRepo.On("GetByToken", mock.Anything, "dead").Return(row, nil)

	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	err := service.Logout(context.Background(), "dead")

	assert.ErrorIs(t, err, ErrAlreadyRevoked)
	refreshRepo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
}

func TestService_Logout_ExpiredStillRevocable(t *testing.T) {
	refreshRepo := new(mockRefreshTokenRepo)
	row := &domain.RefreshToken{
		ID:        1,
		UserID:    10,
		Token:     "expired-but-live",
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}
	refreshRepo.On("GetByToken", mock.Anything, "expired-but-live").Return(row, nil)
	refreshRepo.On("Revoke", mock.Anything, "expired-but-live").Return(true, nil)

	service := newTestService(new(mockUserRepo), refreshRepo, new(mockSigner))

	err := service.Logout(context.Background(), "expired-but-live")

	assert.NoError(t, err)
}
