package httpserver

import (
	"errors"
	"strconv"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/posecoach/internal/pkg/flog"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
)

func HandleCustomError(ctx *fiber.Ctx, e *pcerr.Error) error {
	ev := flog.DebugFrom(ctx)
	if e.StatusCode >= fiber.StatusInternalServerError {
		ev = flog.WarnFrom(ctx)
	}
	ev.
		Str("evt.name", "http.error").
		Str("code", e.ErrorCode).
		Int("status", e.StatusCode).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var pe *pcerr.Error
	if errors.As(err, &pe) {
		return HandleCustomError(ctx, pe)
	}

	// default to 500
	re := *pcerr.ErrInternalError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		re.StatusCode = fe.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = fe.Message
		if fe.Code < fiber.StatusInternalServerError {
			return HandleCustomError(ctx, &re)
		}
	}

	flog.ErrorFrom(ctx).
		Stack().
		Err(err).
		Str("evt.name", "http.error.internal").
		Int("status", re.StatusCode).
		Msg("internal server error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		hub.CaptureException(err)
	}

	return HandleCustomError(ctx, &re)
}
