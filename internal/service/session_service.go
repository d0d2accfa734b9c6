package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authbase/internal/auth"
	"authbase/internal/cache"
	errs "authbase/internal/errors"
	"authbase/internal/model"
	"authbase/internal/repository"
)

const profileCacheTTL = time.Minute

// SessionService implements the authentication session lifecycle:
// credential verification, token issuance and token-based identity
// lookup. Logout needs no server-side work in the stateless model; the
// transport boundary clears the cookie on its own.
type SessionService interface {
	SignUp(ctx context.Context, fullName, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Identify(ctx context.Context, token string) (*model.Profile, error)
}

type sessionService struct {
	users repository.UserRepository
	codec *auth.TokenCodec
	cache *cache.Client
}

// NewSessionService builds a SessionService.
func NewSessionService(users repository.UserRepository, codec *auth.TokenCodec, cache *cache.Client) SessionService {
	return &sessionService{
		users: users,
		codec: codec,
		cache: cache,
	}
}

func profileCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("profile:%s", id)
}

// SignUp creates a new user with a hashed password. The unique index on
// email is authoritative; the pre-check just gives the common case a
// cheaper failure.
func (s *sessionService) SignUp(ctx context.Context, fullName, email, password string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errs.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the email/password pair and returns a signed session
// token. The user lookup happens before the hash comparison; both
// failure modes collapse into ErrInvalidCredentials so the response
// never reveals whether the email is registered.
func (s *sessionService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", errs.ErrInvalidCredentials
	}

	token, err := s.codec.Sign(user.ID.String(), user.FullName, user.Email)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Identify verifies the token and returns the current profile of its
// user, fetched from storage rather than trusted from the claims. Any
// verification failure, including a user that no longer exists, is
// ErrUnauthenticated.
func (s *sessionService) Identify(ctx context.Context, token string) (*model.Profile, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, errs.ErrUnauthenticated
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errs.ErrUnauthenticated
	}

	key := profileCacheKey(id)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached model.Profile
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	profile := user.Profile()
	if payload, err := json.Marshal(profile); err == nil {
		_ = s.cache.Set(ctx, key, payload, profileCacheTTL)
	}
	return profile, nil
}
