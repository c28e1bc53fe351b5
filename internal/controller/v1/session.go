package v1

import (
	"bufio"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/pkg/cachectrl"
	"exusiai.dev/posecoach/internal/pkg/flog"
	"exusiai.dev/posecoach/internal/pkg/middlewares"
	"exusiai.dev/posecoach/internal/server/svr"
	"exusiai.dev/posecoach/internal/service"
)

// streamHeartbeat is how often an idle feedback stream writes a comment, which is also when
// it notices a deleted session or a gone client.
const streamHeartbeat = time.Second * 5

type Session struct {
	fx.In

	Config         *appconfig.Config
	SessionService *service.Session
}

func RegisterSession(v1 *svr.V1, c Session) {
	sessions := v1.Group("/sessions")
	sessions.Post("", c.CreateSession)

	id := middlewares.ValidateSessionParam
	sessions.Get("/:sessionId", id, c.GetSession)
	sessions.Delete("/:sessionId", id, c.DeleteSession)

	sessions.Get("/:sessionId/reference", id, c.GetReference)
	sessions.Put("/:sessionId/reference", id, middlewares.InjectValidBody[types.ReferenceSelector](), c.SelectReference)
	sessions.Delete("/:sessionId/reference", id, c.ClearReference)

	sessions.Post("/:sessionId/frames", id, middlewares.InjectValidBody[types.Frame](), c.SubmitFrame)

	sessions.Get("/:sessionId/feedback", id, c.GetFeedback)
	sessions.Get("/:sessionId/feedback/stream", id, middlewares.AcceptsEventStream, c.StreamFeedback)
}

// @Summary  Create a Session
// @Tags     Session
// @Produce  json
// @Success  201  {object}  types.SessionResponse
// @Router   /v1/sessions [POST]
func (c *Session) CreateSession(ctx *fiber.Ctx) error {
	s := c.SessionService.Create()
	return ctx.Status(fiber.StatusCreated).JSON(service.Describe(s))
}

func (c *Session) GetSession(ctx *fiber.Ctx) error {
	s, err := c.SessionService.Get(ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(service.Describe(s))
}

func (c *Session) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.SessionService.Delete(ctx.Params("sessionId")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *Session) GetReference(ctx *fiber.Ctx) error {
	s, err := c.SessionService.Get(ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	ref := s.Reference()
	if ref == nil {
		return ctx.SendStatus(fiber.StatusNoContent)
	}
	return ctx.JSON(ref)
}

// @Summary      Select the Active Reference
// @Description  Selects the reference later frames of the session are compared against: by id, by group and sequence, or by an inline landmark snapshot.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        sessionId  path      string                   true  "Session ID"
// @Param        selector   body      types.ReferenceSelector  true  "Reference selector"
// @Success      200        {object}  model.ReferencePose
// @Router       /v1/sessions/{sessionId}/reference [PUT]
func (c *Session) SelectReference(ctx *fiber.Ctx) error {
	sel := middlewares.Body[types.ReferenceSelector](ctx)

	ref, err := c.SessionService.SelectReference(ctx.UserContext(), ctx.Params("sessionId"), sel)
	if err != nil {
		return err
	}
	return ctx.JSON(ref)
}

func (c *Session) ClearReference(ctx *fiber.Ctx) error {
	if err := c.SessionService.ClearReference(ctx.Params("sessionId")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// @Summary      Submit a Frame
// @Description  Processes a frame and publishes its feedback. With `async=true` the frame is queued for a frame worker and only its task id is returned.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        sessionId  path      string       true   "Session ID"
// @Param        async      query     bool         false  "Queue the frame instead of processing it inline"
// @Param        frame      body      types.Frame  true   "Frame"
// @Success      200        {object}  model.FeedbackSnapshot
// @Success      202        {object}  types.FrameAccepted
// @Failure      412        {object}  pcerr.Error  "No active reference"
// @Failure      422        {object}  pcerr.Error  "Pose not detected or not fully visible"
// @Router       /v1/sessions/{sessionId}/frames [POST]
func (c *Session) SubmitFrame(ctx *fiber.Ctx) error {
	frame := middlewares.Body[types.Frame](ctx)
	id := ctx.Params("sessionId")

	if ctx.QueryBool("async") {
		taskID, err := c.SessionService.EnqueueFrame(ctx.UserContext(), id, frame)
		if err != nil {
			return err
		}
		return ctx.Status(fiber.StatusAccepted).JSON(types.FrameAccepted{TaskID: taskID})
	}

	fb, err := c.SessionService.SubmitFrame(ctx.UserContext(), id, frame, service.SourceHTTP)
	if err != nil {
		return withFeedback(err, fb)
	}
	return ctx.JSON(fb)
}

// @Summary  Get the Latest Feedback
// @Tags     Session
// @Produce  json
// @Param    sessionId  path      string  true  "Session ID"
// @Success  200        {object}  model.FeedbackSnapshot
// @Router   /v1/sessions/{sessionId}/feedback [GET]
func (c *Session) GetFeedback(ctx *fiber.Ctx) error {
	fb, err := c.SessionService.Latest(ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	cachectrl.OptOut(ctx)
	return ctx.JSON(fb)
}

// StreamFeedback pushes every newly published feedback of the session as a server-sent
// event. A reader may skip intermediate snapshots when frames are published faster than the
// poll interval; every event it receives is a complete snapshot.
func (c *Session) StreamFeedback(ctx *fiber.Ctx) error {
	id := ctx.Params("sessionId")
	s, err := c.SessionService.Get(id)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// ctx must not be touched from the stream writer; take what it needs now
	interval := c.Config.FeedbackStreamInterval
	shutdown := ctx.Context().Done()
	logger := flog.FromFiberCtx(ctx).With().Str("session.id", id).Logger()
	sessions := c.SessionService

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var last uint64
		lastWrite := time.Now()
		write := func(fb *model.FeedbackSnapshot) bool {
			b, err := json.Marshal(fb)
			if err != nil {
				logger.Error().Err(err).Str("evt.name", "session.stream.marshal").Msg("failed to marshal feedback")
				return false
			}
			fmt.Fprintf(w, "id: %d\nevent: feedback\ndata: %s\n\n", fb.Sequence, b)
			lastWrite = time.Now()
			return w.Flush() == nil
		}

		fb := s.Latest()
		last = fb.Sequence
		if !write(fb) {
			return
		}

		for {
			select {
			case <-shutdown:
				fmt.Fprint(w, "event: end\ndata: {}\n\n")
				_ = w.Flush()
				return
			case <-ticker.C:
			}

			if seq := s.Sequence(); seq != last {
				fb := s.Latest()
				last = fb.Sequence
				if !write(fb) {
					logger.Debug().Str("evt.name", "session.stream.closed").Msg("feedback stream client went away")
					return
				}
				continue
			}

			if time.Since(lastWrite) < streamHeartbeat {
				continue
			}
			if _, err := sessions.Get(s.ID); err != nil {
				fmt.Fprint(w, "event: end\ndata: {}\n\n")
				_ = w.Flush()
				return
			}
			fmt.Fprint(w, ": ping\n\n")
			lastWrite = time.Now()
			if err := w.Flush(); err != nil {
				log.Debug().Str("evt.name", "session.stream.closed").Str("session.id", s.ID).Msg("feedback stream client went away")
				return
			}
		}
	})

	return nil
}
