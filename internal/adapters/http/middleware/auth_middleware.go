package middleware

import (
	"strings"

	"eventaro/internal/config"
	"eventaro/internal/pkg/jwt"
	"eventaro/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware for access tokens
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFromRequest(c, "access_token")
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RefreshMiddleware guards the refresh endpoint. It validates the refresh JWT
// and exposes the raw token so the handler can match it against the stored
// fingerprint.
func RefreshMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		refreshToken := tokenFromRequest(c, "refresh_token")
		if refreshToken == "" {
			return response.Unauthorized(c, "Refresh token required")
		}

		claims, err := jwt.ValidateToken(refreshToken, cfg.JWT.RefreshSecret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Refresh token expired, please login again")
			}
			return response.Unauthorized(c, "Invalid refresh token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("refreshToken", refreshToken)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware("ADMIN")
}

// tokenFromRequest reads a token from the named cookie first, then from the
// Authorization bearer header.
func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
