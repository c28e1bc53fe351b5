package cachectrl

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Stored marks a response rendered from a stored record created at t. The record itself never
// changes, but its derived angles follow the deployment's formulation, so it is only cached
// for an hour.
func Stored(ctx *fiber.Ctx, t time.Time) {
	OptInCustom(ctx, t, time.Hour)
}

func OptInCustom(ctx *fiber.Ctx, t time.Time, maxAge time.Duration) {
	ctx.Set(fiber.HeaderCacheControl, "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
	ctx.Set(fiber.HeaderExpires, time.Now().Add(maxAge).UTC().Format(http1123))

	ctx.Response().Header.SetLastModified(t)
}

// OptOut marks a response that is stale as soon as it is sent, such as live feedback.
func OptOut(ctx *fiber.Ctx) {
	ctx.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	ctx.Set(fiber.HeaderPragma, "no-cache")
	ctx.Set(fiber.HeaderExpires, "0")
}

const http1123 = "Mon, 02 Jan 2006 15:04:05 GMT"
