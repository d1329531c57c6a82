package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cankorkmaz/city-hotel-garage/internal/auth"
	"github.com/cankorkmaz/city-hotel-garage/internal/model"
	"github.com/cankorkmaz/city-hotel-garage/internal/repository"
)

type userStoreMock struct {
	mock.Mock
}

func (m *userStoreMock) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *userStoreMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *userStoreMock) FindByRefreshToken(ctx context.Context, tokenHash string) (*model.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *userStoreMock) IsUsernameUnique(ctx context.Context, username string, excludeID uint64) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *userStoreMock) IsEmailUnique(ctx context.Context, email string, excludeID uint64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *userStoreMock) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
		u.CreatedDate = time.Now().UTC()
	}
	return args.Error(0)
}

func (m *userStoreMock) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *userStoreMock) UpdateLastLogin(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *userStoreMock) SetRefreshToken(ctx context.Context, id uint64, tokenHash string, exp time.Time) error {
	args := m.Called(ctx, id, tokenHash, exp)
	return args.Error(0)
}

func (m *userStoreMock) RotateRefreshToken(ctx context.Context, id uint64, oldHash, newHash string, exp time.Time) (bool, error) {
	args := m.Called(ctx, id, oldHash, newHash, exp)
	return args.Bool(0), args.Error(1)
}

func (m *userStoreMock) RevokeRefreshToken(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const (
	testJWTSecret = "unit-test-secret"
	testPassword  = "Correct1pass"
)

func newTestAuthService(users *userStoreMock) *AuthService {
	return NewAuthService(users, slog.New(slog.NewTextHandler(io.Discard, nil)),
		testJWTSecret, time.Hour, 24*time.Hour, bcrypt.MinCost)
}

func activeUser(t *testing.T) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		ID:           7,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		FirstName:    "Alice",
		LastName:     "Smith",
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedDate:  time.Now().UTC(),
	}
}

func TestRegister_Success(t *testing.T) {
	users := new(userStoreMock)
	users.On("IsUsernameUnique", mock.Anything, "alice", uint64(0)).Return(true, nil).Once()
	users.On("IsEmailUnique", mock.Anything, "alice@example.com", uint64(0)).Return(true, nil).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice" && u.Role == model.RoleUser && u.IsActive &&
			u.PasswordHash != testPassword
	})).Return(nil).Once()
	users.On("SetRefreshToken", mock.Anything, uint64(1), mock.Anything, mock.Anything).Return(nil).Once()

	res := newTestAuthService(users).Register(context.Background(), RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "Alice",
		LastName:        "Smith",
	})

	require.True(t, res.Success)
	assert.Equal(t, "alice", res.Data.User.Username)
	assert.Equal(t, "alice@example.com", res.Data.User.Email)
	assert.NotEmpty(t, res.Data.AccessToken)
	assert.Len(t, res.Data.RefreshToken, 96)
	users.AssertExpectations(t)
}

func TestRegister_UsernameTaken(t *testing.T) {
	users := new(userStoreMock)
	users.On("IsUsernameUnique", mock.Anything, "alice", uint64(0)).Return(false, nil).Once()
	users.On("IsEmailUnique", mock.Anything, "alice@example.com", uint64(0)).Return(true, nil).Once()

	res := newTestAuthService(users).Register(context.Background(), RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "Alice",
		LastName:        "Smith",
	})

	assert.False(t, res.Success)
	assert.Equal(t, FailureValidation, res.Kind)
	assert.Contains(t, res.Errors, "username is already taken")
	users.AssertExpectations(t)
}

func TestRegister_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"short username", RegisterRequest{Username: "ab", Email: "a@b.com", Password: testPassword, ConfirmPassword: testPassword, FirstName: "Alice", LastName: "Smith"}},
		{"bad username chars", RegisterRequest{Username: "alice!", Email: "a@b.com", Password: testPassword, ConfirmPassword: testPassword, FirstName: "Alice", LastName: "Smith"}},
		{"weak password", RegisterRequest{Username: "alice", Email: "a@b.com", Password: "password", ConfirmPassword: "password", FirstName: "Alice", LastName: "Smith"}},
		{"password mismatch", RegisterRequest{Username: "alice", Email: "a@b.com", Password: testPassword, ConfirmPassword: "Other1pass", FirstName: "Alice", LastName: "Smith"}},
		{"bad email", RegisterRequest{Username: "alice", Email: "not-an-email", Password: testPassword, ConfirmPassword: testPassword, FirstName: "Alice", LastName: "Smith"}},
		{"numeric first name", RegisterRequest{Username: "alice", Email: "a@b.com", Password: testPassword, ConfirmPassword: testPassword, FirstName: "123", LastName: "Smith"}},
		{"unknown role", RegisterRequest{Username: "alice", Email: "a@b.com", Password: testPassword, ConfirmPassword: testPassword, FirstName: "Alice", LastName: "Smith", Role: "Root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(userStoreMock)
			res := newTestAuthService(users).Register(context.Background(), tt.req)
			assert.False(t, res.Success)
			assert.Equal(t, FailureValidation, res.Kind)
			assert.NotEmpty(t, res.Errors)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	u := activeUser(t)
	users := new(userStoreMock)
	users.On("FindByUsername", mock.Anything, "alice").Return(u, nil).Once()
	users.On("SetRefreshToken", mock.Anything, u.ID, mock.Anything, mock.Anything).Return(nil).Once()
	users.On("UpdateLastLogin", mock.Anything, u.ID).Return(nil).Once()

	res := newTestAuthService(users).Login(context.Background(), LoginRequest{
		Username: "alice",
		Password: testPassword,
	})

	require.True(t, res.Success)
	assert.NotEmpty(t, res.Data.AccessToken)
	assert.Len(t, res.Data.RefreshToken, 96)
	assert.Equal(t, u.Username, res.Data.User.Username)

	claims, err := auth.ParseExpiredToken(testJWTSecret, res.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Role, claims.Role)
	users.AssertExpectations(t)
}

func TestLogin_FailuresShareOneMessage(t *testing.T) {
	u := activeUser(t)
	inactive := activeUser(t)
	inactive.IsActive = false

	tests := []struct {
		name     string
		password string
		setup    func(m *userStoreMock)
	}{
		{
			name:     "unknown username",
			password: testPassword,
			setup: func(m *userStoreMock) {
				m.On("FindByUsername", mock.Anything, "alice").
					Return(nil, repository.ErrUserNotFound).Once()
			},
		},
		{
			name:     "wrong password",
			password: "Wrong1pass",
			setup: func(m *userStoreMock) {
				m.On("FindByUsername", mock.Anything, "alice").Return(u, nil).Once()
			},
		},
		{
			name:     "inactive account",
			password: testPassword,
			setup: func(m *userStoreMock) {
				m.On("FindByUsername", mock.Anything, "alice").Return(inactive, nil).Once()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(userStoreMock)
			tt.setup(users)

			res := newTestAuthService(users).Login(context.Background(), LoginRequest{
				Username: "alice",
				Password: tt.password,
			})

			assert.False(t, res.Success)
			assert.Equal(t, FailureUnauthorized, res.Kind)
			assert.Equal(t, "invalid username or password", res.Message)
			users.AssertExpectations(t)
		})
	}
}

func TestRefreshToken_RotatesAndReturnsNewPair(t *testing.T) {
	u := activeUser(t)
	access, err := auth.NewAccessToken(testJWTSecret, u.Username, u.Role, u.ID, -time.Minute)
	require.NoError(t, err)
	oldRaw := "old-refresh-token"
	oldHash := auth.HashRefreshRaw(oldRaw)
	exp := time.Now().UTC().Add(24 * time.Hour)
	u.RefreshTokenHash = &oldHash
	u.RefreshTokenExpiry = &exp

	users := new(userStoreMock)
	users.On("FindByRefreshToken", mock.Anything, oldHash).Return(u, nil).Once()
	users.On("RotateRefreshToken", mock.Anything, u.ID, oldHash, mock.Anything, mock.Anything).
		Return(true, nil).Once()

	res := newTestAuthService(users).RefreshToken(context.Background(), RefreshRequest{
		AccessToken:  access.Token,
		RefreshToken: oldRaw,
	})

	require.True(t, res.Success)
	assert.NotEmpty(t, res.Data.AccessToken)
	assert.NotEqual(t, oldRaw, res.Data.RefreshToken)
	users.AssertExpectations(t)
}

func TestRefreshToken_RotationRaceFails(t *testing.T) {
	u := activeUser(t)
	access, err := auth.NewAccessToken(testJWTSecret, u.Username, u.Role, u.ID, time.Hour)
	require.NoError(t, err)
	oldRaw := "stale-refresh-token"
	oldHash := auth.HashRefreshRaw(oldRaw)
	exp := time.Now().UTC().Add(24 * time.Hour)
	u.RefreshTokenHash = &oldHash
	u.RefreshTokenExpiry = &exp

	users := new(userStoreMock)
	users.On("FindByRefreshToken", mock.Anything, oldHash).Return(u, nil).Once()
	users.On("RotateRefreshToken", mock.Anything, u.ID, auth.HashRefreshRaw(oldRaw), mock.Anything, mock.Anything).
		Return(false, nil).Once()

	res := newTestAuthService(users).RefreshToken(context.Background(), RefreshRequest{
		AccessToken:  access.Token,
		RefreshToken: oldRaw,
	})

	assert.False(t, res.Success)
	assert.Equal(t, FailureUnauthorized, res.Kind)
	users.AssertExpectations(t)
}

func TestRefreshToken_StoredTokenExpired(t *testing.T) {
	u := activeUser(t)
	access, err := auth.NewAccessToken(testJWTSecret, u.Username, u.Role, u.ID, time.Hour)
	require.NoError(t, err)
	raw := "expired-refresh-token"
	hash := auth.HashRefreshRaw(raw)
	exp := time.Now().UTC().Add(-time.Minute)
	u.RefreshTokenHash = &hash
	u.RefreshTokenExpiry = &exp

	users := new(userStoreMock)
	users.On("FindByRefreshToken", mock.Anything, hash).Return(u, nil).Once()

	res := newTestAuthService(users).RefreshToken(context.Background(), RefreshRequest{
		AccessToken:  access.Token,
		RefreshToken: raw,
	})

	assert.False(t, res.Success)
	assert.Equal(t, FailureUnauthorized, res.Kind)
	users.AssertNotCalled(t, "RotateRefreshToken",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshToken_UnknownToken(t *testing.T) {
	u := activeUser(t)
	access, err := auth.NewAccessToken(testJWTSecret, u.Username, u.Role, u.ID, time.Hour)
	require.NoError(t, err)

	users := new(userStoreMock)
	users.On("FindByRefreshToken", mock.Anything, mock.Anything).
		Return(nil, repository.ErrUserNotFound).Once()

	res := newTestAuthService(users).RefreshToken(context.Background(), RefreshRequest{
		AccessToken:  access.Token,
		RefreshToken: "never-issued",
	})

	assert.False(t, res.Success)
	assert.Equal(t, FailureUnauthorized, res.Kind)
	users.AssertExpectations(t)
}

func TestRefreshToken_TokenOwnerMismatch(t *testing.T) {
	u := activeUser(t)
	access, err := auth.NewAccessToken(testJWTSecret, "mallory", u.Role, 99, time.Hour)
	require.NoError(t, err)
	raw := "alice-refresh-token"

	users := new(userStoreMock)
	users.On("FindByRefreshToken", mock.Anything, auth.HashRefreshRaw(raw)).Return(u, nil).Once()

	res := newTestAuthService(users).RefreshToken(context.Background(), RefreshRequest{
		AccessToken:  access.Token,
		RefreshToken: raw,
	})

	assert.False(t, res.Success)
	assert.Equal(t, FailureUnauthorized, res.Kind)
	users.AssertExpectations(t)
}

func TestRefreshToken_BadAccessToken(t *testing.T) {
	users := new(userStoreMock)
	res := newTestAuthService(users).RefreshToken(context.Background(), RefreshRequest{
		AccessToken:  "garbage",
		RefreshToken: "whatever",
	})
	assert.False(t, res.Success)
	assert.Equal(t, FailureUnauthorized, res.Kind)
}

func TestLogout_IsIdempotent(t *testing.T) {
	users := new(userStoreMock)
	users.On("RevokeRefreshToken", mock.Anything, uint64(7)).Return(nil).Twice()

	svc := newTestAuthService(users)
	assert.True(t, svc.Logout(context.Background(), 7).Success)
	assert.True(t, svc.Logout(context.Background(), 7).Success)
	users.AssertExpectations(t)
}

func TestChangePassword_Success(t *testing.T) {
	u := activeUser(t)
	users := new(userStoreMock)
	users.On("FindByID", mock.Anything, u.ID).Return(u, nil).Once()
	users.On("UpdatePasswordHash", mock.Anything, u.ID, mock.MatchedBy(func(hash string) bool {
		return auth.VerifyPassword(hash, "Brand2new")
	})).Return(nil).Once()
	users.On("RevokeRefreshToken", mock.Anything, u.ID).Return(nil).Once()

	res := newTestAuthService(users).ChangePassword(context.Background(), u.ID, ChangePasswordRequest{
		CurrentPassword: testPassword,
		NewPassword:     "Brand2new",
		ConfirmPassword: "Brand2new",
	})

	assert.True(t, res.Success)
	users.AssertExpectations(t)
}

func TestChangePassword_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		req  ChangePasswordRequest
	}{
		{"confirmation mismatch", ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "Brand2new", ConfirmPassword: "Other2new"}},
		{"same as current", ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: testPassword, ConfirmPassword: testPassword}},
		{"weak new password", ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "short", ConfirmPassword: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(userStoreMock)
			res := newTestAuthService(users).ChangePassword(context.Background(), 7, tt.req)
			assert.False(t, res.Success)
			assert.Equal(t, FailureValidation, res.Kind)
			users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	u := activeUser(t)
	users := new(userStoreMock)
	users.On("FindByID", mock.Anything, u.ID).Return(u, nil).Once()

	res := newTestAuthService(users).ChangePassword(context.Background(), u.ID, ChangePasswordRequest{
		CurrentPassword: "Wrong1pass",
		NewPassword:     "Brand2new",
		ConfirmPassword: "Brand2new",
	})

	assert.False(t, res.Success)
	assert.Equal(t, FailureUnauthorized, res.Kind)
	users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "RevokeRefreshToken", mock.Anything, mock.Anything)
}

func TestGetProfile(t *testing.T) {
	u := activeUser(t)
	users := new(userStoreMock)
	users.On("FindByID", mock.Anything, u.ID).Return(u, nil).Once()

	res := newTestAuthService(users).GetProfile(context.Background(), u.ID)

	require.True(t, res.Success)
	assert.Equal(t, u.Username, res.Data.Username)
	assert.Equal(t, u.Email, res.Data.Email)
	users.AssertExpectations(t)
}
