package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SessionTokenTTL is the validity window of a session token.
const SessionTokenTTL = 24 * time.Hour

var (
	// ErrTokenExpired is returned when the token passed signature checks
	// but its validity window has elapsed. Callers should log back in.
	ErrTokenExpired = errors.New("session token expired")
	// ErrTokenInvalid is returned for tampered, malformed or otherwise
	// unverifiable tokens.
	ErrTokenInvalid = errors.New("session token invalid")
)

// SessionClaims is the payload carried by a session token.
type SessionClaims struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec with the given signing secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
	}
}

// Sign issues an HS256-signed session token valid for SessionTokenTTL.
func (c *TokenCodec) Sign(userID, fullName, email string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:   userID,
		FullName: fullName,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the claims. Expiry and
// tampering are distinct error kinds so callers can tell "log back in"
// apart from a forged token.
func (c *TokenCodec) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
