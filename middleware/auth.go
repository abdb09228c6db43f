package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/hospital-app/models"
	"github.com/meinhoongagan/hospital-app/utils"
)

const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalEmail  = "email"
)

// Protected validates the bearer token and exposes its id, email and role as
// locals for later handlers.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "Invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Invalid token claims")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return unauthorized(c, "Invalid user ID in token")
			}
			role, err := extractRole(claims)
			if err != nil {
				return unauthorized(c, "Invalid role in token")
			}
			email, _ := claims["email"].(string)

			c.Locals(LocalUserID, userID)
			c.Locals(LocalRole, role)
			c.Locals(LocalEmail, email)
			return c.Next()
		},
	})
}

// CurrentActor returns who the request is authenticated as. It is the zero
// Actor on unprotected routes.
func CurrentActor(c *fiber.Ctx) models.Actor {
	id, _ := c.Locals(LocalUserID).(string)
	role, _ := c.Locals(LocalRole).(models.Role)
	return models.Actor{UserID: id, Role: role}
}

func extractUserID(claims jwt.MapClaims) (string, error) {
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", errors.New("no ID found in claims")
	}
	return id, nil
}

// extractRole rejects refresh tokens, which carry no role.
func extractRole(claims jwt.MapClaims) (models.Role, error) {
	raw, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("no role found in claims")
	}
	role := models.Role(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("unsupported role %q", raw)
	}
	return role, nil
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), "missing or malformed JWT") {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing or malformed token",
		})
	}
	return unauthorized(c, "Invalid or expired token")
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
		Message: "Unauthorized",
		Error:   msg,
	})
}
