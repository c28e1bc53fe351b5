package runscript

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "exusiai.dev/posecoach/cmd/app/cli"
	script_archive_references "exusiai.dev/posecoach/cmd/app/cli/runscript/scripts/archive_references"
	script_import_references "exusiai.dev/posecoach/cmd/app/cli/runscript/scripts/import_references"
)

func depsFn[T any]() func() T {
	return func() T {
		var deps T
		cliapp.Start(fx.Populate(&deps))
		return deps
	}
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "run-script",
		Description: "run maintenance go scripts",
		Subcommands: []*cli.Command{
			script_import_references.Command(depsFn[script_import_references.CommandDeps]()),
			script_archive_references.Command(depsFn[script_archive_references.CommandDeps]()),
		},
	}
}
