package infra

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/app/appconfig"
)

const (
	FrameStreamName    = "posecoach-frames"
	FrameSubjectPrefix = "FRAME."
)

// FrameSubject is the subject carrying frames for the sessions held by instance. Sessions
// live in process memory, so every instance consumes only its own subject. Message bodies
// are msgpack encoded types.FrameTask.
func FrameSubject(instance string) string {
	return FrameSubjectPrefix + instance
}

func NATS(conf *appconfig.Config, lc fx.Lifecycle) (*nats.Conn, nats.JetStreamContext, error) {
	errorHandler := func(conn *nats.Conn, sub *nats.Subscription, err error) {
		ev := log.Error().
			Str("evt.name", "nats.error").
			Err(err).
			Str("conn.url", conn.ConnectedUrlRedacted())
		if sub != nil {
			ev = ev.Str("sub.subject", sub.Subject)
		}
		ev.Msg("nats error")
	}

	var nc *nats.Conn
	err := connect(conf, "nats", func(ctx context.Context) error {
		var err error
		nc, err = nats.Connect(conf.NatsURL, nats.PingInterval(time.Second*20), nats.ErrorHandler(errorHandler))
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to connect to NATS")
		return nil, nil, err
	}

	js, err := nc.JetStream(nats.PublishAsyncMaxPending(256))
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to initialize NATS JetStream")
		return nil, nil, err
	}

	// frames are only useful while a session is live: keep them in memory and drop stale ones
	_, err = js.AddStream(&nats.StreamConfig{
		Name: FrameStreamName,
		Subjects: []string{
			FrameSubjectPrefix + "*",
		},
		Retention:  nats.WorkQueuePolicy,
		Discard:    nats.DiscardOld,
		Storage:    nats.MemoryStorage,
		MaxAge:     time.Second * 30,
		Replicas:   1,
		Duplicates: time.Second * 30,
	})
	if err != nil {
		log.Warn().Err(err).Msg("infra: nats: failed to create jetstream stream: is it already created?")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return nc.Drain()
		},
	})

	return nc, js, nil
}
