package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/pkg/middlewares"
	"exusiai.dev/posecoach/internal/server/svr"
	"exusiai.dev/posecoach/internal/service"
)

type Compare struct {
	fx.In

	ReferenceService *service.Reference
	PipelineService  *service.Pipeline
}

func RegisterCompare(v1 *svr.V1, c Compare) {
	v1.Post("/compare", middlewares.InjectValidBody[types.CompareRequest](), c.Compare)
}

// @Summary      Compare a Frame
// @Description  Compares a single frame against a reference without any session. Nothing is published.
// @Tags         Compare
// @Accept       json
// @Produce      json
// @Param        request  body      types.CompareRequest  true  "Reference selector and frame"
// @Success      200      {object}  model.FeedbackSnapshot
// @Failure      422      {object}  pcerr.Error  "Pose not detected or not fully visible"
// @Router       /v1/compare [POST]
func (c *Compare) Compare(ctx *fiber.Ctx) error {
	req := middlewares.Body[types.CompareRequest](ctx)

	ref, err := c.ReferenceService.Resolve(ctx.UserContext(), &req.Reference)
	if err != nil {
		return err
	}

	fb, err := c.PipelineService.Compare(ctx.UserContext(), &req.Frame, ref)
	if err != nil {
		return withFeedback(err, fb)
	}
	return ctx.JSON(fb)
}
