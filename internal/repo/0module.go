package repo

import (
	"context"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("repo",
		fx.Provide(
			NewReferencePose,
		),
		fx.Invoke(RegisterMigrations),
	)
}

func RegisterMigrations(lc fx.Lifecycle, referencePose *ReferencePose) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return referencePose.Migrate(ctx)
		},
	})
}
