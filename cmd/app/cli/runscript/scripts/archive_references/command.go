package script_archive_references

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/service"
)

type CommandDeps struct {
	fx.In

	ArchiveService *service.Archive
}

func Command(depsFn func() CommandDeps) *cli.Command {
	return &cli.Command{
		Name:        "archive_references",
		Description: "archive one day's reference poses to S3",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "date",
				Usage:    "UTC date of the references to archive, in YYYY-MM-DD",
				Required: true,
			},
		},
		Action: func(ctx *cli.Context) error {
			return run(ctx, depsFn(), ctx.String("date"))
		},
	}
}
