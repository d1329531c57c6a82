package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cankorkmaz/city-hotel-garage/internal/auth"
	"github.com/cankorkmaz/city-hotel-garage/internal/model"
	"github.com/cankorkmaz/city-hotel-garage/internal/repository"
)

// msgInvalidCredentials is returned for unknown usernames, wrong passwords
// and deactivated accounts alike, so login failures cannot be used to probe
// which usernames exist.
const msgInvalidCredentials = "invalid username or password"

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByRefreshToken(ctx context.Context, tokenHash string) (*model.User, error)
	IsUsernameUnique(ctx context.Context, username string, excludeID uint64) (bool, error)
	IsEmailUnique(ctx context.Context, email string, excludeID uint64) (bool, error)
	Create(ctx context.Context, u *model.User) error
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
	UpdateLastLogin(ctx context.Context, id uint64) error
	SetRefreshToken(ctx context.Context, id uint64, tokenHash string, exp time.Time) error
	RotateRefreshToken(ctx context.Context, id uint64, oldHash, newHash string, exp time.Time) (bool, error)
	RevokeRefreshToken(ctx context.Context, id uint64) error
}

// AuthService implements registration, login, token refresh and account
// maintenance.
type AuthService struct {
	users           UserStore
	log             *slog.Logger
	jwtSecret       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	bcryptCost      int
}

func NewAuthService(users UserStore, log *slog.Logger, jwtSecret string, accessTTL, refreshTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:           users,
		log:             log,
		jwtSecret:       jwtSecret,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		bcryptCost:      bcryptCost,
	}
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=50,username_chars"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,password_complexity"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,min=2,max=100,letters"`
	LastName        string `json:"lastName" validate:"required,min=2,max=100,letters"`
	Role            string `json:"role" validate:"omitempty,oneof=User Admin Manager"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,password_complexity,nefield=CurrentPassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// UserProfile is the public view of a user. Password and token material never
// leave the service layer.
type UserProfile struct {
	ID            uint64     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Role          string     `json:"role"`
	IsActive      bool       `json:"isActive"`
	CreatedDate   time.Time  `json:"createdDate"`
	LastLoginDate *time.Time `json:"lastLoginDate,omitempty"`
}

// LoginResponse carries the freshly issued token pair plus the profile.
type LoginResponse struct {
	AccessToken           string      `json:"accessToken"`
	AccessTokenExpiresAt  time.Time   `json:"accessTokenExpiresAt"`
	RefreshToken          string      `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time   `json:"refreshTokenExpiresAt"`
	User                  UserProfile `json:"user"`
}

func profileOf(u *model.User) UserProfile {
	return UserProfile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		IsActive:      u.IsActive,
		CreatedDate:   u.CreatedDate,
		LastLoginDate: u.LastLoginDate,
	}
}

// Register creates a new active account and signs it in. Usernames and emails
// must be unique across the system, compared case-insensitively. There is no
// rollback: a token failure after the insert leaves a valid account that can
// log in normally.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) Result[LoginResponse] {
	if errs := validateStruct(req); errs != nil {
		return Fail[LoginResponse](FailureValidation, "validation failed", errs...)
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	// Uniqueness violations are validation failures so a client can surface
	// them next to the field errors. The unique index still backs the race.
	var violations []string
	ok, err := s.users.IsUsernameUnique(ctx, username, 0)
	if err != nil {
		s.log.Error("username uniqueness check failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "registration failed")
	}
	if !ok {
		violations = append(violations, "username is already taken")
	}

	ok, err = s.users.IsEmailUnique(ctx, email, 0)
	if err != nil {
		s.log.Error("email uniqueness check failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "registration failed")
	}
	if !ok {
		violations = append(violations, "email is already registered")
	}
	if len(violations) > 0 {
		return Fail[LoginResponse](FailureValidation, "validation failed", violations...)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		s.log.Error("password hash failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "registration failed")
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Fail[LoginResponse](FailureConflict, "username or email is already in use")
		}
		s.log.Error("user insert failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "registration failed")
	}
	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)

	// The account exists from here on. A token failure is reported to the
	// caller, who can still log in with the new credentials.
	access, err := auth.NewAccessToken(s.jwtSecret, u.Username, u.Role, u.ID, s.accessTokenTTL)
	if err != nil {
		s.log.Error("access token sign failed", "user_id", u.ID, "err", err)
		return Fail[LoginResponse](FailureInternal, "registration succeeded but sign-in failed, please log in")
	}
	refresh, err := auth.NewRefreshToken(s.refreshTokenTTL)
	if err != nil {
		s.log.Error("refresh token generation failed", "user_id", u.ID, "err", err)
		return Fail[LoginResponse](FailureInternal, "registration succeeded but sign-in failed, please log in")
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, auth.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		s.log.Error("refresh token store failed", "user_id", u.ID, "err", err)
		return Fail[LoginResponse](FailureInternal, "registration succeeded but sign-in failed, please log in")
	}

	return OK(LoginResponse{
		AccessToken:           access.Token,
		AccessTokenExpiresAt:  access.Exp,
		RefreshToken:          refresh.Raw,
		RefreshTokenExpiresAt: refresh.Exp,
		User:                  profileOf(u),
	}, "registration successful")
}

// Login verifies credentials and issues a token pair. The stored refresh token
// is replaced, so at most one refresh token is active per user.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) Result[LoginResponse] {
	if errs := validateStruct(req); errs != nil {
		return Fail[LoginResponse](FailureValidation, "validation failed", errs...)
	}

	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Fail[LoginResponse](FailureUnauthorized, msgInvalidCredentials)
		}
		s.log.Error("user lookup failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "login failed")
	}
	if !u.IsActive {
		return Fail[LoginResponse](FailureUnauthorized, msgInvalidCredentials)
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return Fail[LoginResponse](FailureUnauthorized, msgInvalidCredentials)
	}

	access, err := auth.NewAccessToken(s.jwtSecret, u.Username, u.Role, u.ID, s.accessTokenTTL)
	if err != nil {
		s.log.Error("access token sign failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "login failed")
	}
	refresh, err := auth.NewRefreshToken(s.refreshTokenTTL)
	if err != nil {
		s.log.Error("refresh token generation failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "login failed")
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, auth.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		s.log.Error("refresh token store failed", "user_id", u.ID, "err", err)
		return Fail[LoginResponse](FailureInternal, "login failed")
	}
	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		s.log.Warn("last login update failed", "user_id", u.ID, "err", err)
	}

	s.log.Info("user logged in", "user_id", u.ID, "username", u.Username)
	return OK(LoginResponse{
		AccessToken:           access.Token,
		AccessTokenExpiresAt:  access.Exp,
		RefreshToken:          refresh.Raw,
		RefreshTokenExpiresAt: refresh.Exp,
		User:                  profileOf(u),
	}, "login successful")
}

// RefreshToken exchanges an (expired or live) access token plus its refresh
// token for a new pair. The rotation is a compare-and-swap against the stored
// hash, so a concurrently rotated or replayed refresh token fails cleanly and
// the losing caller must log in again.
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshRequest) Result[LoginResponse] {
	if errs := validateStruct(req); errs != nil {
		return Fail[LoginResponse](FailureValidation, "validation failed", errs...)
	}

	claims, err := auth.ParseExpiredToken(s.jwtSecret, req.AccessToken)
	if err != nil {
		return Fail[LoginResponse](FailureUnauthorized, "invalid access token")
	}

	oldHash := auth.HashRefreshRaw(req.RefreshToken)
	u, err := s.users.FindByRefreshToken(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Fail[LoginResponse](FailureUnauthorized, "invalid or expired refresh token")
		}
		s.log.Error("refresh token lookup failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "token refresh failed")
	}
	if u.Username != claims.Username || !u.IsActive {
		return Fail[LoginResponse](FailureUnauthorized, "invalid or expired refresh token")
	}
	// The lookup already filters expired rows; re-check here so the expiry
	// rule holds regardless of the store behind the interface.
	if u.RefreshTokenExpiry == nil || !u.RefreshTokenExpiry.After(time.Now().UTC()) {
		return Fail[LoginResponse](FailureUnauthorized, "invalid or expired refresh token")
	}

	access, err := auth.NewAccessToken(s.jwtSecret, u.Username, u.Role, u.ID, s.accessTokenTTL)
	if err != nil {
		s.log.Error("access token sign failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "token refresh failed")
	}
	refresh, err := auth.NewRefreshToken(s.refreshTokenTTL)
	if err != nil {
		s.log.Error("refresh token generation failed", "err", err)
		return Fail[LoginResponse](FailureInternal, "token refresh failed")
	}

	swapped, err := s.users.RotateRefreshToken(ctx, u.ID, oldHash, auth.HashRefreshRaw(refresh.Raw), refresh.Exp)
	if err != nil {
		s.log.Error("refresh token rotation failed", "user_id", u.ID, "err", err)
		return Fail[LoginResponse](FailureInternal, "token refresh failed")
	}
	if !swapped {
		s.log.Warn("refresh token rotation lost race", "user_id", u.ID)
		return Fail[LoginResponse](FailureUnauthorized, "invalid or expired refresh token")
	}

	s.log.Info("tokens refreshed", "user_id", u.ID)
	return OK(LoginResponse{
		AccessToken:           access.Token,
		AccessTokenExpiresAt:  access.Exp,
		RefreshToken:          refresh.Raw,
		RefreshTokenExpiresAt: refresh.Exp,
		User:                  profileOf(u),
	}, "token refreshed")
}

// Logout revokes the caller's refresh token. Logging out twice succeeds both
// times. The current access token stays valid until it expires on its own.
func (s *AuthService) Logout(ctx context.Context, userID uint64) Status {
	if err := s.users.RevokeRefreshToken(ctx, userID); err != nil {
		s.log.Error("refresh token revoke failed", "user_id", userID, "err", err)
		return FailStatus(FailureInternal, "logout failed")
	}
	s.log.Info("user logged out", "user_id", userID)
	return OKStatus("logout successful")
}

// ChangePassword verifies the current password, stores the new hash and
// revokes the active refresh token so other sessions cannot refresh anymore.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, req ChangePasswordRequest) Status {
	if errs := validateStruct(req); errs != nil {
		return FailStatus(FailureValidation, "validation failed", errs...)
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return FailStatus(FailureNotFound, "user not found")
		}
		s.log.Error("user lookup failed", "user_id", userID, "err", err)
		return FailStatus(FailureInternal, "password change failed")
	}
	if !auth.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return FailStatus(FailureUnauthorized, "current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		s.log.Error("password hash failed", "err", err)
		return FailStatus(FailureInternal, "password change failed")
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		s.log.Error("password update failed", "user_id", userID, "err", err)
		return FailStatus(FailureInternal, "password change failed")
	}
	if err := s.users.RevokeRefreshToken(ctx, userID); err != nil {
		s.log.Error("refresh token revoke failed", "user_id", userID, "err", err)
		return FailStatus(FailureInternal, "password change failed")
	}

	s.log.Info("password changed", "user_id", userID)
	return OKStatus("password changed successfully")
}

// GetProfile returns the caller's own profile.
func (s *AuthService) GetProfile(ctx context.Context, userID uint64) Result[UserProfile] {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Fail[UserProfile](FailureNotFound, "user not found")
		}
		s.log.Error("user lookup failed", "user_id", userID, "err", err)
		return Fail[UserProfile](FailureInternal, "profile lookup failed")
	}
	return OK(profileOf(u), "profile retrieved")
}
