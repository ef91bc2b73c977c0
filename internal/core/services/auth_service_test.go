package services

import (
	"context"
	"testing"

	"eventaro/internal/adapters/persistence/models"
	"eventaro/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	result, err := svc.Register(ctx, &RegisterInput{
		FullName: "Alice Martin",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)

	// Password is stored hashed
	var stored models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&stored).Error)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NotNil(t, stored.HashedRefreshToken)
}

func TestRegisterStoresRefreshTokenFingerprint(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	result, err := svc.Register(ctx, &RegisterInput{
		FullName: "Alice Martin",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	// A signed refresh JWT is far longer than bcrypt's 72-byte input limit;
	// the stored fingerprint must be its SHA256 digest, not a bcrypt hash.
	assert.Greater(t, len(result.RefreshToken), 72)

	var stored models.User
	require.NoError(t, db.Where("id = ?", result.User.ID).First(&stored).Error)
	require.NotNil(t, stored.HashedRefreshToken)
	assert.Equal(t, password.HashToken(result.RefreshToken), *stored.HashedRefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	input := &RegisterInput{
		FullName: "Alice Martin",
		Email:    "alice@example.com",
		Password: "password123",
	}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	seedUser(t, db, "Alice Martin", "alice@example.com", models.RoleUser)

	_, wrongPassword := svc.Login(ctx, &LoginInput{Email: "alice@example.com", Password: "nope12345"})
	_, unknownEmail := svc.Login(ctx, &LoginInput{Email: "ghost@example.com", Password: "password123"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	user := seedUser(t, db, "Alice Martin", "alice@example.com", models.RoleUser)

	result, err := svc.Login(ctx, &LoginInput{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{
		FullName: "Alice Martin",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	userID := registered.User.ID

	rotated, err := svc.Refresh(ctx, userID, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.RefreshToken)

	// The previous refresh token is invalid after rotation
	_, err = svc.Refresh(ctx, userID, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The new one still works
	_, err = svc.Refresh(ctx, userID, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsForeignToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{
		FullName: "Alice Martin",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, registered.User.ID, "not-the-stored-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, "unknown-user-id", registered.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterInput{
		FullName: "Alice Martin",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	userID := registered.User.ID

	require.NoError(t, svc.Logout(ctx, userID))
	require.NoError(t, svc.Logout(ctx, userID))

	// Refresh is impossible once the fingerprint is cleared
	_, err = svc.Refresh(ctx, userID, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
