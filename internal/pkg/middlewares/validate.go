package middlewares

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/constant"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
	"exusiai.dev/posecoach/internal/util/rekuest"
)

// IsFrameSubmission reports whether c submits a frame. Those arrive at camera rate.
func IsFrameSubmission(c *fiber.Ctx) bool {
	return c.Method() == fiber.MethodPost && strings.HasSuffix(c.Path(), "/frames")
}

// ValidateSessionParam rejects session ids that could never have been issued.
func ValidateSessionParam(c *fiber.Ctx) error {
	if err := rekuest.ValidVar(c, c.Params("sessionId"), "required,len=20,alphanum"); err != nil {
		return err
	}
	return c.Next()
}

// AdminKey guards the admin routes. An empty configured key disables them entirely.
func AdminKey(conf *appconfig.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if conf.AdminKey == "" {
			return pcerr.ErrNotFound
		}
		given := c.Get(constant.AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(conf.AdminKey)) != 1 {
			return pcerr.ErrUnauthorized.Msg("invalid admin key")
		}
		return c.Next()
	}
}
