// Package auth provides token issuing, token parsing and password hashing.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMalformed is returned when an access token cannot be decoded
	// or carries no usable subject.
	ErrTokenMalformed = errors.New("malformed access token")
	// ErrTokenSignature is returned when an access token's signature does
	// not verify against the server secret.
	ErrTokenSignature = errors.New("invalid token signature")
)

// AccessToken is a signed HS256 JWT plus its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is an opaque random credential. Raw goes back to the client;
// only the SHA-256 hash of Raw is stored server-side.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// Claims is the subset of access token claims the application consumes.
type Claims struct {
	UserID   uint64
	Username string
	Role     string
}

// NewAccessToken signs an HS256 JWT for a user. Claims: sub (username),
// uid (user id), role, iat, exp.
func NewAccessToken(secret, username, role string, userID uint64, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  username,
		"uid":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken returns a cryptographically random token and its expiry.
func NewRefreshToken(ttl time.Duration) (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Raw: raw, Exp: time.Now().UTC().Add(ttl)}, nil
}

// HashRefreshRaw returns the SHA-256 hex digest of a raw refresh token.
// Storing only the hash keeps stolen database rows from refreshing sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ParseExpiredToken extracts claims from an access token without validating
// expiry. The signature is still verified, so the subject recovered here can
// be trusted during a refresh exchange even after the token lapsed.
func ParseExpiredToken(secret, token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	tok, err := parser.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, ErrTokenSignature
		}
		return Claims{}, ErrTokenMalformed
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenMalformed
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return Claims{}, ErrTokenMalformed
	}
	role, _ := mc["role"].(string)
	var uid uint64
	if f, ok := mc["uid"].(float64); ok {
		uid = uint64(f)
	}
	return Claims{UserID: uid, Username: sub, Role: role}, nil
}

// randomHex returns a hex string from n bytes of secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
