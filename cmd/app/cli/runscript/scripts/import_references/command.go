package script_import_references

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/repo"
	"exusiai.dev/posecoach/internal/service"
)

type CommandDeps struct {
	fx.In

	ReferenceService  *service.Reference
	ReferencePoseRepo *repo.ReferencePose
}

func Command(depsFn func() CommandDeps) *cli.Command {
	return &cli.Command{
		Name:        "import_references",
		Description: "derive reference poses from a JSON array or JSON Lines file of landmark snapshots and store them",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     "file",
				Usage:    "file holding createReference requests",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "derive and validate every reference without storing any",
			},
		},
		Action: func(ctx *cli.Context) error {
			return run(ctx, depsFn(), ctx.Path("file"), ctx.Bool("dry-run"))
		},
	}
}
