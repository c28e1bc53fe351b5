package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/posecoach/internal/constant"
	"exusiai.dev/posecoach/internal/util/i18n"
)

// InjectI18n stores the translator negotiated from Accept-Language, used by
// validation errors.
func InjectI18n() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(constant.ContextKeyTranslator, i18n.Negotiate(c.Get(fiber.HeaderAcceptLanguage)))
		return c.Next()
	}
}
