package app

import (
	"time"

	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/app/appcontext"
	"exusiai.dev/posecoach/internal/controller"
	"exusiai.dev/posecoach/internal/core/session"
	"exusiai.dev/posecoach/internal/infra"
	"exusiai.dev/posecoach/internal/model/cache"
	"exusiai.dev/posecoach/internal/pkg/logger"
	"exusiai.dev/posecoach/internal/repo"
	"exusiai.dev/posecoach/internal/server"
	"exusiai.dev/posecoach/internal/service"
	"exusiai.dev/posecoach/internal/workers/framewkr"
)

// Options assembles the application graph for ctx. The configuration is parsed and the
// global logger configured eagerly, before any fx constructor runs.
func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}
	logger.Configure(conf)

	opts := []fx.Option{
		fx.WithLogger(logger.Fx),
		fx.Supply(conf),

		// storage, messaging and tracing clients
		infra.Module(),
		server.Module(),
		repo.Module(),

		// the pose pipeline and everything that holds pose state
		session.Module(),
		service.Module(),

		// process-wide singletons are set up before any controller registers routes;
		// fx runs invokes in registration order
		fx.Invoke(infra.SentryInit, infra.Datadog, cache.Initialize),

		controller.Module(),

		fx.StartTimeout(10 * time.Second),
		// fiber drains open connections in Shutdown, but long feedback streams may keep it waiting
		fx.StopTimeout(5 * time.Minute),
	}

	// scripts share the graph but never consume frames
	if ctx.Env != appcontext.EnvCLI {
		opts = append(opts, fx.Invoke(framewkr.Start))
	}

	return append(opts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
