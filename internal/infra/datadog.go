package infra

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/pkg/bininfo"
)

func Datadog(conf *appconfig.Config, lc fx.Lifecycle) {
	if conf.DevMode {
		log.Info().
			Str("evt.name", "infra.datadog.disabled").
			Msg("datadog profiler is disabled in dev mode")
		return
	}

	if !conf.DatadogProfilerEnabled {
		log.Info().
			Str("evt.name", "infra.datadog.disabled").
			Msg("datadog profiler is disabled")
		return
	}

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				err := profiler.Start(
					profiler.WithService("posecoach"),
					profiler.WithEnv(lo.Ternary(conf.DevMode, "dev", "prod")),
					profiler.WithVersion(bininfo.Version),
					profiler.WithAgentAddr(conf.DatadogProfilerAgentAddress),
					profiler.WithTags("app.env:"+conf.AppContext.Env.String()),
					profiler.WithProfileTypes(
						profiler.CPUProfile,
						profiler.HeapProfile,
					),
				)
				if err != nil {
					log.Error().
						Err(err).
						Str("evt.name", "infra.datadog.error").
						Msg("datadog profiler failed to start")
				}

				// not a critical component: a failing profiler must not stop the app
				return nil
			},
			OnStop: func(ctx context.Context) error {
				profiler.Stop()
				return nil
			},
		},
	)
}
