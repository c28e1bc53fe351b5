package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/posecoach/internal/constant"
	"exusiai.dev/posecoach/internal/pkg/flog"
)

// RequestID copies the request id created by the logger middleware into ctx.Locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := flog.IDFromFiberCtx(c)
		if ok {
			c.Locals(constant.ContextKeyRequestID, id.String())
		}
		return c.Next()
	}
}
