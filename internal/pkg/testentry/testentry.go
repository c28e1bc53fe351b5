// Package testentry starts the whole application graph for integration tests. Those tests
// need postgres, redis and nats as configured by the usual POSECOACH_* environment and only
// run when POSECOACH_INTEGRATION is set.
package testentry

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"exusiai.dev/posecoach/internal/app"
	"exusiai.dev/posecoach/internal/app/appcontext"
)

const EnvIntegration = "POSECOACH_INTEGRATION"

func Populate(t *testing.T, targets ...any) {
	t.Helper()
	if os.Getenv(EnvIntegration) == "" {
		t.Skipf("%s not set; skipping integration test", EnvIntegration)
	}

	// for testing, logger is too annoying. therefore, we use a NopLogger here
	opts := app.Options(appcontext.Declare(appcontext.EnvCLI),
		fx.NopLogger,
		fx.Populate(targets...),
		fx.Invoke(func() {
			log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
		}),
	)

	a := fxtest.New(t, opts...)
	a.RequireStart()
	t.Cleanup(a.RequireStop)
}
