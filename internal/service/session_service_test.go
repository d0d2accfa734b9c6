package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"authbase/internal/auth"
	errs "authbase/internal/errors"
	"authbase/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestSessionService_SignUp(t *testing.T) {
	tests := []struct {
		name          string
		fullName      string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful sign-up",
			fullName: "Alice",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already registered",
			fullName: "Alice",
			email:    "taken@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@x.com").Return(&model.User{Email: "taken@x.com"}, nil)
			},
			expectedError: errs.ErrDuplicateEmail,
		},
		{
			name:     "duplicate from racing insert",
			fullName: "Alice",
			email:    "race@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@x.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: errs.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			codec := auth.NewTokenCodec("test-secret")
			svc := NewSessionService(mockRepo, codec, nil)

			user, err := svc.SignUp(context.Background(), tt.fullName, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.fullName, user.FullName)
				assert.False(t, user.IsAdmin)
				assert.False(t, user.IsVerified)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.True(t, auth.CheckPassword(tt.password, user.PasswordHash))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSessionService_Login(t *testing.T) {
	userID := uuid.New()
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "a@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{
					ID:           userID,
					FullName:     "Alice",
					Email:        "a@x.com",
					PasswordHash: hash,
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errs.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{
					ID:           userID,
					FullName:     "Alice",
					Email:        "a@x.com",
					PasswordHash: hash,
				}, nil)
			},
			expectedError: errs.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			codec := auth.NewTokenCodec("test-secret")
			svc := NewSessionService(mockRepo, codec, nil)

			token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				require.NotEmpty(t, token)
				claims, err := codec.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, userID.String(), claims.UserID)
				assert.Equal(t, "a@x.com", claims.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestSessionService_Login_NoUserEnumeration(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		PasswordHash: hash,
	}, nil)

	svc := NewSessionService(mockRepo, auth.NewTokenCodec("test-secret"), nil)

	_, unknownErr := svc.Login(context.Background(), "nobody@x.com", "anything")
	_, wrongErr := svc.Login(context.Background(), "a@x.com", "wrong-password")

	assert.Equal(t, unknownErr, wrongErr)
	assert.ErrorIs(t, unknownErr, errs.ErrInvalidCredentials)
}

func TestSessionService_Identify(t *testing.T) {
	userID := uuid.New()
	codec := auth.NewTokenCodec("test-secret")

	validToken := func(t *testing.T) string {
		t.Helper()
		token, err := codec.Sign(userID.String(), "Alice", "a@x.com")
		require.NoError(t, err)
		return token
	}

	expiredToken := func(t *testing.T) string {
		t.Helper()
		claims := &auth.SessionClaims{
			UserID: userID.String(),
			Email:  "a@x.com",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name          string
		token         func(t *testing.T) string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "valid token returns current profile",
			token: validToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, userID).Return(&model.User{
					ID:         userID,
					FullName:   "Alice",
					Email:      "a@x.com",
					IsVerified: true,
				}, nil)
			},
			expectedError: nil,
		},
		{
			name:          "expired token",
			token:         expiredToken,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errs.ErrUnauthenticated,
		},
		{
			name: "tampered token",
			token: func(t *testing.T) string {
				return validToken(t) + "x"
			},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: errs.ErrUnauthenticated,
		},
		{
			name:  "user no longer exists",
			token: validToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errs.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewSessionService(mockRepo, codec, nil)
			profile, err := svc.Identify(context.Background(), tt.token(t))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, profile)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, profile)
				assert.Equal(t, "Alice", profile.FullName)
				assert.Equal(t, "a@x.com", profile.Email)
				assert.True(t, profile.IsVerified)

				// the projection must never leak the password hash
				payload, err := json.Marshal(profile)
				require.NoError(t, err)
				assert.NotContains(t, string(payload), "password")
				assert.NotContains(t, string(payload), "hash")
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
