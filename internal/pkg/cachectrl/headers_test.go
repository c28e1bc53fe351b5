package cachectrl

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders(t *testing.T) {
	created := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	app := fiber.New()
	app.Get("/stored", func(ctx *fiber.Ctx) error {
		Stored(ctx, created)
		return ctx.SendString("ok")
	})
	app.Get("/live", func(ctx *fiber.Ctx) error {
		OptOut(ctx)
		return ctx.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/stored", nil))
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=3600", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, "Sat, 09 Mar 2024 12:00:00 GMT", resp.Header.Get(fiber.HeaderLastModified))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/live", nil))
	require.NoError(t, err)
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, "0", resp.Header.Get(fiber.HeaderExpires))
}
