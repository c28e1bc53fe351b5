package meta

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/model/cache"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/server/svr"
	"exusiai.dev/posecoach/internal/service"
	"exusiai.dev/posecoach/internal/util/rekuest"
)

type AdminController struct {
	fx.In

	ReferenceService *service.Reference
	SessionService   *service.Session
	ArchiveService   *service.Archive
}

func RegisterAdmin(admin *svr.Admin, c AdminController) {
	admin.Post("/purge", c.PurgeCache)
	admin.Post("/archive", c.ArchiveReferences)

	admin.Delete("/references/:referenceId", c.DeleteReference)
	admin.Get("/sessions", c.GetSessionStats)
}

func (c *AdminController) PurgeCache(ctx *fiber.Ctx) error {
	var request types.PurgeCacheRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	if len(request.Names) == 0 {
		if err := cache.DeleteAll(ctx.UserContext()); err != nil {
			return err
		}
		return ctx.SendStatus(fiber.StatusNoContent)
	}
	for _, name := range request.Names {
		if err := cache.Delete(ctx.UserContext(), name); err != nil {
			return err
		}
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *AdminController) ArchiveReferences(ctx *fiber.Ctx) error {
	var request types.ArchiveReferencesRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	// validated by the datetime tag already
	date, _ := time.Parse("2006-01-02", request.Date)
	if err := c.ArchiveService.ArchiveByDate(ctx.UserContext(), date); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *AdminController) DeleteReference(ctx *fiber.Ctx) error {
	if err := c.ReferenceService.Delete(ctx.UserContext(), ctx.Params("referenceId")); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *AdminController) GetSessionStats(ctx *fiber.Ctx) error {
	sessions := c.SessionService.List()
	return ctx.JSON(fiber.Map{
		"instance": c.SessionService.Instance(),
		"count":    len(sessions),
		"sessions": sessions,
	})
}
