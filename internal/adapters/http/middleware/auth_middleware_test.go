package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventaro/internal/config"
	"eventaro/internal/pkg/jwt"
	"eventaro/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 30,
		},
	}
}

func newGuardedApp(cfg *config.Config) *fiber.App {
	app := fiber.New()

	app.Get("/me", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userID": c.Locals("userID"),
			"role":   c.Locals("role"),
		})
	})
	app.Get("/admin", AuthMiddleware(cfg), AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/refresh", RefreshMiddleware(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID")})
	})

	return app
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	app := newGuardedApp(testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusUnauthorized, body.StatusCode)
	assert.Equal(t, "Access token required", body.Message)
}

func TestAuthMiddlewareBearerToken(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	token, err := jwt.GenerateAccessToken("user-1", "alice@example.com", "USER", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-1", body["userID"])
	assert.Equal(t, "USER", body["role"])
}

func TestAuthMiddlewareCookieToken(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	token, err := jwt.GenerateAccessToken("user-1", "alice@example.com", "USER", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	token, err := jwt.GenerateAccessToken("user-1", "alice@example.com", "USER", cfg.JWT.Secret, -1)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnlyForbidsUserRole(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	userToken, err := jwt.GenerateAccessToken("user-1", "alice@example.com", "USER", cfg.JWT.Secret, 15)
	require.NoError(t, err)
	adminToken, err := jwt.GenerateAccessToken("admin-1", "admin@example.com", "ADMIN", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRefreshMiddlewareRejectsAccessToken(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	// An access token is signed with the access secret, not the refresh one
	token, err := jwt.GenerateAccessToken("user-1", "alice@example.com", "USER", cfg.JWT.Secret, 15)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshMiddlewareAcceptsRefreshToken(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	token, err := jwt.GenerateRefreshToken("user-1", "alice@example.com", "USER", cfg.JWT.RefreshSecret, 30)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-1", body["userID"])
}
