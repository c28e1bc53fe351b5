package infra

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"exusiai.dev/posecoach/internal/app/appconfig"
)

// connect runs check until it succeeds or InfraConnectAttempts are used up, backing off
// between attempts.
func connect(conf *appconfig.Config, component string, check func(ctx context.Context) error) error {
	return retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			return check(ctx)
		},
		retry.Attempts(conf.InfraConnectAttempts),
		retry.Delay(time.Millisecond*500),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Str("evt.name", "infra."+component+".retry").
				Uint("attempt", n+1).
				Err(err).
				Msg("infra: connection check failed, retrying")
		}),
	)
}
