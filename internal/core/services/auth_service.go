package services

import (
	"context"
	"errors"
	"log"

	"eventaro/internal/adapters/persistence/models"
	"eventaro/internal/adapters/persistence/repositories"
	"eventaro/internal/config"
	"eventaro/internal/pkg/jwt"
	"eventaro/internal/pkg/password"

	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new user with the lowest privilege tier
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Check if email already registered
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	// 2. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 3. Create user
	user := &models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Unique index on email catches the check-then-insert race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// 4. Generate and store tokens
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a user. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Refresh rotates the token pair. The presented refresh token must match the
// stored fingerprint; the old token becomes invalid once rotation succeeds.
func (s *AuthService) Refresh(ctx context.Context, userID, presentedToken string) (*AuthResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if user.HashedRefreshToken == nil {
		return nil, ErrInvalidRefreshToken
	}
	if password.HashToken(presentedToken) != *user.HashedRefreshToken {
		return nil, ErrInvalidRefreshToken
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Email)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout clears the stored refresh-token fingerprint. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.SetHashedRefreshToken(ctx, userID, nil); err != nil {
		return err
	}

	log.Printf("✅ User logged out: %s", userID)
	return nil
}

// GetProfile returns the current user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// issueTokens generates a token pair and overwrites the stored refresh-token
// fingerprint. Only one refresh token is active per user at any time.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// SHA256 fingerprint: the signed JWT is far past bcrypt's 72-byte limit
	hashed := password.HashToken(tokens.RefreshToken)
	if err := s.userRepo.SetHashedRefreshToken(ctx, user.ID, &hashed); err != nil {
		return nil, err
	}

	return tokens, nil
}

type signResult struct {
	token string
	err   error
}

// generateTokens signs the access and refresh tokens concurrently and awaits
// both. The two signing operations have no ordering dependency.
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessCh := make(chan signResult, 1)
	refreshCh := make(chan signResult, 1)

	go func() {
		token, err := jwt.GenerateAccessToken(
			user.ID, user.Email, user.Role,
			s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
		)
		accessCh <- signResult{token: token, err: err}
	}()

	go func() {
		token, err := jwt.GenerateRefreshToken(
			user.ID, user.Email, user.Role,
			s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays,
		)
		refreshCh <- signResult{token: token, err: err}
	}()

	access := <-accessCh
	refresh := <-refreshCh
	if access.err != nil {
		return nil, access.err
	}
	if refresh.err != nil {
		return nil, refresh.err
	}

	return &TokenPair{
		AccessToken:  access.token,
		RefreshToken: refresh.token,
	}, nil
}
