package middleware

import (
	"errors"
	"strings"

	"storefront/pkg/auth"
	"storefront/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// NewAdminAuthMiddleware requires "Authorization: Bearer <token>" and stores
// the verified claims on the request's user context.
func NewAdminAuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "admin.auth.missing_token")
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			code := "admin.auth.invalid_token"
			if errors.Is(err, auth.ErrTokenExpired) {
				code = "admin.auth.token_expired"
			}

			zap.L().Warn("Rejected admin token",
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Error(err),
			)
			return unauthorized(c, code)
		}

		c.SetUserContext(auth.WithClaims(c.UserContext(), claims))
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *fiber.Ctx, code string) error {
	err := httperror.Unauthorized(code, "Unauthorized", nil)

	return c.Status(err.Status).JSON(fiber.Map{
		"error": err.Message,
		"code":  err.Code,
	})
}
