package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/posecoach/internal/util/rekuest"
)

const LocalsKeyBody = "body"

// InjectValidBody parses and validates the body into a fresh *T and stores it in the
// "body" local. Handlers read it back with Body[T].
func InjectValidBody[T any]() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		dest := new(T)
		if err := rekuest.ValidBody(ctx, dest); err != nil {
			return err
		}

		ctx.Locals(LocalsKeyBody, dest)

		return ctx.Next()
	}
}

func Body[T any](ctx *fiber.Ctx) *T {
	return ctx.Locals(LocalsKeyBody).(*T)
}
