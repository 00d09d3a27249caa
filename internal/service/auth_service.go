package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carmarket/internal/auth"
	apperr "carmarket/internal/errors"
	"carmarket/internal/model"
	"carmarket/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	Password        string
	PasswordConfirm string
}

// AuthService handles registration and authentication.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (accessToken, refreshToken string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register validates the form, creates the user with a hashed credential and
// an empty profile, and logs the new user in by issuing a token pair.
func (s *authService) Register(ctx context.Context, input RegisterInput) (string, string, *model.User, error) {
	verr := apperr.NewValidation()

	if input.Password != input.PasswordConfirm {
		verr.Add("password_confirm", "passwords do not match")
	}
	if input.Phone != "" && !model.ValidPhone(input.Phone) {
		verr.Add("phone", "phone number must match +999999999, 9 to 15 digits")
	}

	if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		verr.Add("email", "user with this email already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", nil, fmt.Errorf("check email: %w", err)
	}
	if existing, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil && existing != nil {
		verr.Add("username", "user with this username already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", nil, fmt.Errorf("check username: %w", err)
	}

	if verr.HasErrors() {
		return "", "", nil, verr
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return "", "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		PasswordHash: string(hashed),
	}

	if err := s.userRepo.CreateWithProfile(ctx, user); err != nil {
		// A concurrent registration can win the unique-index race after the
		// pre-checks above. Re-check both indexes so the form flags the
		// field that actually collided.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, ferr := s.userRepo.FindByEmail(ctx, input.Email); ferr == nil && existing != nil {
				verr.Add("email", "user with this email already exists")
			}
			if existing, ferr := s.userRepo.FindByUsername(ctx, input.Username); ferr == nil && existing != nil {
				verr.Add("username", "user with this username already exists")
			}
			if !verr.HasErrors() {
				verr.Add("email", "user with this email already exists")
			}
			return "", "", nil, verr
		}
		return "", "", nil, fmt.Errorf("create user: %w", err)
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, user, nil
}

// Login authenticates by email and password and returns a token pair.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, apperr.ErrUserNotFound
		}
		return "", "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, apperr.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (string, string, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}
