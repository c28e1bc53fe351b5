package v1

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/constant"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/pkg/cachectrl"
	"exusiai.dev/posecoach/internal/pkg/fiberstore"
	"exusiai.dev/posecoach/internal/pkg/flog"
	"exusiai.dev/posecoach/internal/pkg/middlewares"
	"exusiai.dev/posecoach/internal/server/svr"
	"exusiai.dev/posecoach/internal/service"
	"exusiai.dev/posecoach/internal/util"
	"exusiai.dev/posecoach/internal/util/rekuest"
)

type Reference struct {
	fx.In

	Redis            *redis.Client
	RedSync          *redsync.Redsync
	ReferenceService *service.Reference
}

func RegisterReference(v1 *svr.V1, c Reference) {
	references := v1.Group("/references")
	references.Get("/groups", c.GetGroups)
	references.Get("/groups/:group", c.GetGroup)
	references.Get("/:referenceId", c.GetReference)
	references.Post("", middlewares.Idempotency(&middlewares.IdempotencyConfig{
		Lifetime:  constant.IdempotencyLifetime,
		KeyHeader: constant.IdempotencyKeyHeader,
		KeepResponseHeaders: []string{
			fiber.HeaderContentType,
			fiber.HeaderContentLength,
		},
		Storage: fiberstore.NewRedis(c.Redis, "idempotency:references"),
		RedSync: c.RedSync,
	}), middlewares.InjectValidBody[types.CreateReferenceRequest](), c.CreateReference)
}

// @Summary  Get Reference Groups
// @Tags     Reference
// @Produce  json
// @Success  200  {array}  model.ReferenceGroup
// @Router   /v1/references/groups [GET]
func (c *Reference) GetGroups(ctx *fiber.Ctx) error {
	groups, err := c.ReferenceService.GetGroups(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(groups)
}

// @Summary  Get References of a Group
// @Tags     Reference
// @Produce  json
// @Param    group  path      string  true  "Group name"
// @Success  200    {array}   model.ReferencePose
// @Failure  404    {object}  pcerr.Error  "No reference in the group"
// @Router   /v1/references/groups/{group} [GET]
func (c *Reference) GetGroup(ctx *fiber.Ctx) error {
	group := ctx.Params("group")
	if err := rekuest.ValidVar(ctx, group, "required,max=64"); err != nil {
		return err
	}

	refs, err := c.ReferenceService.GetByGroup(ctx.UserContext(), group)
	if err != nil {
		return err
	}
	return ctx.JSON(refs)
}

func (c *Reference) GetReference(ctx *fiber.Ctx) error {
	id := ctx.Params("referenceId")
	if err := rekuest.ValidVar(ctx, id, "required,max=64,alphanum"); err != nil {
		return err
	}

	ref, err := c.ReferenceService.GetByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	cachectrl.Stored(ctx, ref.CreatedAt)
	return ctx.JSON(ref)
}

// @Summary      Create a Reference
// @Description  Stores a reference pose. Its joint angles are derived once, on creation. Send an idempotency key header to retry safely.
// @Tags         Reference
// @Accept       json
// @Produce      json
// @Param        reference  body      types.CreateReferenceRequest  true  "Reference"
// @Success      201        {object}  model.ReferencePose
// @Failure      409        {object}  pcerr.Error  "A reference with the same group and sequence exists"
// @Failure      422        {object}  pcerr.Error  "Pose not detected or not fully visible"
// @Router       /v1/references [POST]
func (c *Reference) CreateReference(ctx *fiber.Ctx) error {
	req := middlewares.Body[types.CreateReferenceRequest](ctx)

	ref, err := c.ReferenceService.Create(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	flog.InfoFrom(ctx).
		Str("evt.name", "reference.created").
		Str("referenceId", ref.ReferenceID).
		Str("group", ref.Group).
		Int("sequence", ref.Sequence).
		Str("idempotencyKey", util.IdempotencyKeyFromLocals(ctx)).
		Msg("reference created")
	return ctx.Status(fiber.StatusCreated).JSON(ref)
}
