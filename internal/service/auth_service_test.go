package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carmarket/internal/auth"
	apperr "carmarket/internal/errors"
	"carmarket/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateWithProfile(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfileLocation(ctx context.Context, userID uint, location string) error {
	args := m.Called(ctx, userID, location)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:        "ivan",
		Email:           "ivan@example.com",
		FirstName:       "Ivan",
		LastName:        "Petrov",
		Phone:           "+79991234567",
		Password:        "password123",
		PasswordConfirm: "password123",
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		input       func() RegisterInput
		setupMock   func(*MockUserRepository, *MockTokenStore)
		wantField   string
		wantSuccess bool
	}{
		{
			name:  "successful registration creates user with profile and logs in",
			input: validRegisterInput,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("FindByUsername", mock.Anything, "ivan").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("CreateWithProfile", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "ivan@example.com", mock.Anything).Return(nil)
			},
			wantSuccess: true,
		},
		{
			name:  "duplicate email fails with field error and creates nothing",
			input: validRegisterInput,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(&model.User{Email: "ivan@example.com"}, nil)
				mRepo.On("FindByUsername", mock.Anything, "ivan").Return(nil, gorm.ErrRecordNotFound)
			},
			wantField: "email",
		},
		{
			name: "password mismatch",
			input: func() RegisterInput {
				in := validRegisterInput()
				in.PasswordConfirm = "different"
				return in
			},
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("FindByUsername", mock.Anything, "ivan").Return(nil, gorm.ErrRecordNotFound)
			},
			wantField: "password_confirm",
		},
		{
			name: "invalid phone format",
			input: func() RegisterInput {
				in := validRegisterInput()
				in.Phone = "12345"
				return in
			},
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("FindByUsername", mock.Anything, "ivan").Return(nil, gorm.ErrRecordNotFound)
			},
			wantField: "phone",
		},
		{
			name:  "email unique-index race on create is reported on the email field",
			input: validRegisterInput,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
				mRepo.On("FindByUsername", mock.Anything, "ivan").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("CreateWithProfile", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
				// The post-create re-check finds the user that won the race.
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(&model.User{Email: "ivan@example.com"}, nil).Once()
			},
			wantField: "email",
		},
		{
			name:  "username unique-index race on create is reported on the username field",
			input: validRegisterInput,
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(nil, gorm.ErrRecordNotFound)
				mRepo.On("FindByUsername", mock.Anything, "ivan").Return(nil, gorm.ErrRecordNotFound).Once()
				mRepo.On("CreateWithProfile", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
				mRepo.On("FindByUsername", mock.Anything, "ivan").Return(&model.User{Username: "ivan"}, nil).Once()
			},
			wantField: "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService, mockTokenStore)

			accessToken, refreshToken, user, err := svc.Register(context.Background(), tt.input())

			if tt.wantSuccess {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)
				assert.Equal(t, "ivan@example.com", user.Email)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, "password123", user.PasswordHash)
			} else {
				assert.Error(t, err)
				assert.Nil(t, user)
				var verr *apperr.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "ivan@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(&model.User{
					ID:           7,
					Email:        "ivan@example.com",
					PasswordHash: string(hashed),
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(7), "ivan@example.com", mock.Anything).Return(nil)
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperr.ErrUserNotFound,
		},
		{
			name:     "wrong password",
			email:    "ivan@example.com",
			password: "wrong",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
				mRepo.On("FindByEmail", mock.Anything, "ivan@example.com").Return(&model.User{
					ID:           7,
					Email:        "ivan@example.com",
					PasswordHash: string(hashed),
				}, nil)
			},
			expectedError: apperr.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService, mockTokenStore)

			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}
