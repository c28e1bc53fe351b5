package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/constant"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
)

func testApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			if pe, ok := err.(*pcerr.Error); ok {
				return ctx.SendStatus(pe.StatusCode)
			}
			return fiber.DefaultErrorHandler(ctx, err)
		},
	})
	handlers = append(handlers, func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})
	app.All("/*", handlers...)
	return app
}

func request(t *testing.T, app *fiber.App, req *http.Request) int {
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAdminKey(t *testing.T) {
	conf := &appconfig.Config{ConfigSpec: appconfig.ConfigSpec{AdminKey: "s3cret"}}
	app := testApp(AdminKey(conf))

	req := httptest.NewRequest(http.MethodGet, "/purge", nil)
	assert.Equal(t, http.StatusUnauthorized, request(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/purge", nil)
	req.Header.Set(constant.AdminKeyHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, request(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/purge", nil)
	req.Header.Set(constant.AdminKeyHeader, "s3cret")
	assert.Equal(t, http.StatusNoContent, request(t, app, req))
}

func TestAdminKeyUnsetHidesRoutes(t *testing.T) {
	app := testApp(AdminKey(&appconfig.Config{}))

	req := httptest.NewRequest(http.MethodGet, "/purge", nil)
	req.Header.Set(constant.AdminKeyHeader, "")
	assert.Equal(t, http.StatusNotFound, request(t, app, req))
}

func TestIsFrameSubmission(t *testing.T) {
	var seen []bool
	app := testApp(func(ctx *fiber.Ctx) error {
		seen = append(seen, IsFrameSubmission(ctx))
		return ctx.Next()
	})

	request(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/frames", nil))
	request(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc/frames", nil))
	request(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))

	assert.Equal(t, []bool{true, false, false}, seen)
}
