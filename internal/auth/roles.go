package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

// AdminRequiredMessage is returned when a non-admin reaches an admin route.
const AdminRequiredMessage = "Admin required"

// RequireAdmin ensures the authenticated caller carries the admin flag. It
// trusts the flag in the token; role changes apply on the next login.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok || !identity.IsAdmin {
			return apperrors.NewAuthorizationError(AdminRequiredMessage)
		}
		return c.Next()
	}
}
