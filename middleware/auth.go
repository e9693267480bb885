package middleware

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"Exchange/Engine"
	"Exchange/Models"
)

func secretKey() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("secret")
}

// IssueToken signs a 24h session token for the given user id.
func IssueToken(uid string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    uid,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// Verify resolves the caller from the jwt cookie, rejects inactive accounts,
// and stores an Engine.Actor in the request context. Handlers behind
// Verify(Models.RoleAdmin) only ever see admin actors; the engine still runs
// its own capability checks on top.
func Verify(required Models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies("jwt")
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not Logged In.",
			})
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return secretKey(), nil
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token claims",
			})
		}

		var user Models.User
		if result := Models.DB.Where("uid = ?", claims.Issuer).First(&user); result.Error != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User not found",
			})
		}

		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Account is suspended",
			})
		}

		c.Locals("actor", Engine.Actor{
			UID:      user.UID,
			Role:     user.Role,
			IsActive: user.IsActive,
		})

		if required == Models.RoleAdmin && user.Role != Models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You do not have permission to access this page",
			})
		}

		return c.Next()
	}
}
