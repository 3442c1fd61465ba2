package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tiffycooks/config"
	"tiffycooks/models"
	"tiffycooks/utils"
)

// Protected requires a valid access token and loads the user into the
// request context.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := resolveUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)
		c.Locals("sessionID", claims.SessionID)

		return c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present but lets
// anonymous requests through. Used by the AI endpoint, which accepts
// anonymous sessions.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := resolveUser(c)
		if err == nil {
			c.Locals("user", user)
			c.Locals("userID", user.ID)
			c.Locals("sessionID", claims.SessionID)
		}
		return c.Next()
	}
}

func resolveUser(c *fiber.Ctx) (*models.User, *utils.Claims, error) {
	// Try the Authorization header first
	var token string
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization format")
		}
		token = tokenParts[1]
	} else {
		// Fall back to cookie if header not present
		token = c.Cookies("access_token")
		if token == "" {
			return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization required")
		}
	}

	claims, err := utils.ParseJWTToken(token)
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	var user models.User
	if err := config.DB.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "User not found")
	}

	// Tokens minted before a credential change carry a stale version
	if claims.TokenVersion != user.TokenVersion {
		return nil, nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token version")
	}

	return &user, claims, nil
}
