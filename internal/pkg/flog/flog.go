// Package flog provides a set of fiber.Ctx helpers for zerolog.
package flog

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FromFiberCtx gets the logger in the request's context.
// This is a shortcut for log.Ctx(r.UserContext())
func FromFiberCtx(r *fiber.Ctx) *zerolog.Logger {
	return log.Ctx(r.UserContext())
}

// NewHandlerMiddleware injects log into requests context.
func NewHandlerMiddleware(log zerolog.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// copy the logger (including its context slice) so UpdateContext never races
		// between requests
		l := log.With().Logger()
		ctx.SetUserContext(l.WithContext(ctx.UserContext()))
		return ctx.Next()
	}
}

func fieldHandler(fieldKey string, value func(ctx *fiber.Ctx) string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		Annotate(ctx, fieldKey, value(ctx))
		return ctx.Next()
	}
}

// Annotate adds a string field to the logger of the request.
func Annotate(ctx *fiber.Ctx, fieldKey, value string) {
	zerolog.Ctx(ctx.UserContext()).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str(fieldKey, value)
	})
}

// URLHandler adds the requested path as a field to the context's logger.
func URLHandler(fieldKey string) fiber.Handler {
	return fieldHandler(fieldKey, func(ctx *fiber.Ctx) string { return ctx.Path() })
}

// MethodHandler adds the request method as a field to the context's logger.
func MethodHandler(fieldKey string) fiber.Handler {
	return fieldHandler(fieldKey, func(ctx *fiber.Ctx) string { return ctx.Method() })
}

// RemoteAddrHandler adds the request's remote address as a field to the context's logger.
func RemoteAddrHandler(fieldKey string) fiber.Handler {
	return fieldHandler(fieldKey, func(ctx *fiber.Ctx) string { return ctx.IP() })
}

// UserAgentHandler adds the request's user-agent as a field to the context's logger.
func UserAgentHandler(fieldKey string) fiber.Handler {
	return fieldHandler(fieldKey, func(ctx *fiber.Ctx) string { return ctx.Get(fiber.HeaderUserAgent) })
}

type idKey struct{}

// IDFromFiberCtx returns the unique id associated to the *fiber.Ctx if any.
func IDFromFiberCtx(r *fiber.Ctx) (id xid.ID, ok bool) {
	if r == nil {
		return
	}
	return IDFromCtx(r.UserContext())
}

// IDFromCtx returns the unique id associated to the context if any.
func IDFromCtx(ctx context.Context) (id xid.ID, ok bool) {
	id, ok = ctx.Value(idKey{}).(xid.ID)
	return
}

// CtxWithID adds the given xid.ID to the context
func CtxWithID(ctx context.Context, id xid.ID) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// RequestIDHandler returns a handler setting a unique id to the request which can
// be gathered using IDFromFiberCtx(req). The id is added to the logger under fieldKey
// and echoed in the headerName response header when headerName is not empty.
func RequestIDHandler(fieldKey, headerName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, ok := IDFromFiberCtx(ctx)
		if !ok {
			id = xid.New()
			ctx.SetUserContext(CtxWithID(ctx.UserContext(), id))
		}
		if fieldKey != "" {
			Annotate(ctx, fieldKey, id.String())
		}
		if headerName != "" {
			ctx.Set(headerName, id.String())
		}
		return ctx.Next()
	}
}

// AccessHandler returns a handler that call f after each request.
func AccessHandler(f func(ctx *fiber.Ctx, duration time.Duration)) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		f(ctx, time.Since(start))
		return err
	}
}

func DebugFrom(ctx *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(ctx).Debug()
}

func InfoFrom(ctx *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(ctx).Info()
}

func WarnFrom(ctx *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(ctx).Warn()
}

func ErrorFrom(ctx *fiber.Ctx) *zerolog.Event {
	return FromFiberCtx(ctx).Error()
}
