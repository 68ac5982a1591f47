package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

const identityKey = "auth_identity"

// AuthFailedMessage is returned for every authentication failure.
const AuthFailedMessage = "Authentication failed"

// AuthMiddleware validates bearer tokens. It never touches the database: the
// identity comes from the token alone.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate enforces a valid bearer token. Preflight requests pass through.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodOptions {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewAuthenticationError(AuthFailedMessage)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewAuthenticationError(AuthFailedMessage)
	}

	claims, err := m.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewAppError(apperrors.KindAuthentication, AuthFailedMessage, fiber.StatusForbidden, err)
	}

	identity := claims.Identity()
	c.Locals(identityKey, &identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}
