package framewkr

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/fx"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/constant"
	"exusiai.dev/posecoach/internal/infra"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/pkg/jetstream"
	"exusiai.dev/posecoach/internal/pkg/observability"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
	"exusiai.dev/posecoach/internal/service"
)

type WorkerDeps struct {
	fx.In

	Config         *appconfig.Config
	NatsJS         nats.JetStreamContext
	SessionService *service.Session
}

type Worker struct {
	// count is the number of consumers
	count int

	WorkerDeps
}

// Start spawns the frame consumers of this instance. They are stopped together with the
// application.
func Start(lc fx.Lifecycle, deps WorkerDeps) {
	if !deps.Config.FrameWorkerEnabled {
		log.Info().Str("evt.name", "framewkr.disabled").Msg("frame worker disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{WorkerDeps: deps}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ch := make(chan error)
			// dump errors from consumers
			go func() {
				for {
					select {
					case err := <-ch:
						log.Error().Err(err).Str("evt.name", "framewkr.error").Msg("frame worker error")
					case <-ctx.Done():
						return
					}
				}
			}()

			for i := 0; i < deps.Config.FrameWorkerConcurrency; i++ {
				go func() {
					if err := w.Consumer(ctx, ch); err != nil && !errors.Is(err, context.Canceled) {
						ch <- err
					}
				}()
				w.count++
			}

			log.Info().
				Str("evt.name", "framewkr.started").
				Int("consumers", w.count).
				Str("subject", infra.FrameSubject(deps.SessionService.Instance())).
				Msg("frame worker started")
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func (w *Worker) Consumer(ctx context.Context, ch chan error) error {
	instance := w.SessionService.Instance()
	subject := infra.FrameSubject(instance)
	msgChan := make(chan *nats.Msg, 16)

	// consumer names are per instance since each one filters on its own subject
	sub, err := w.NatsJS.ChanQueueSubscribe(subject, constant.FrameQueueGroup+"-"+instance, msgChan,
		nats.AckWait(w.Config.FrameWorkerTimeout*2),
		nats.MaxAckPending(128),
	)
	if err != nil {
		log.Err(err).Str("subject", subject).Msg("failed to subscribe to frame subject")
		return err
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			log.Warn().Err(err).Str("evt.name", "framewkr.unsubscribe").Msg("failed to unsubscribe")
		}
	}()

	for {
		select {
		case msg := <-msgChan:
			w.handle(ctx, msg, ch)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg *nats.Msg, ch chan error) {
	taskCtx, cancelTask := context.WithTimeout(ctx, w.Config.FrameWorkerTimeout)
	inprogressInformer := time.AfterFunc(w.Config.FrameWorkerTimeout/2, func() {
		if err := msg.InProgress(); err != nil {
			log.Error().Err(err).Msg("failed to set msg InProgress")
		}
	})
	defer func() {
		inprogressInformer.Stop()
		cancelTask()
		if err := msg.Ack(); err != nil {
			log.Error().Err(err).Msg("failed to ack")
		}
	}()

	task := &types.FrameTask{}
	if err := msgpack.Unmarshal(msg.Data, task); err != nil {
		ch <- errors.Wrapf(err, "failed to decode frame task %s", jetstream.MessageID(msg))
		return
	}
	if task.CreatedAt != 0 {
		observability.FrameConsumeMessagingLatency.WithLabelValues().Observe(time.Since(time.UnixMicro(task.CreatedAt)).Seconds())
	}

	if err := w.consumeFrame(taskCtx, task); err != nil {
		log.Error().
			Err(err).
			Str("taskId", task.TaskID).
			Str("msgId", jetstream.MessageID(msg)).
			Str("frameTask", spew.Sdump(task)).
			Msg("failed to consume frame task")
		ch <- err
		return
	}

	log.Debug().Str("taskId", task.TaskID).Msg("frame task processed successfully")
}

// consumeFrame runs the task through the pipeline. Outcomes a client caused, such as an
// expired session or a frame rejected by the capture gate, are not worker errors: the
// feedback already tells the client.
func (w *Worker) consumeFrame(ctx context.Context, task *types.FrameTask) error {
	_, err := w.SessionService.SubmitFrame(ctx, task.SessionID, &task.Frame, service.SourceWorker)
	if err == nil {
		return nil
	}

	var pe *pcerr.Error
	if errors.As(err, &pe) && pe.StatusCode < 500 {
		log.Debug().
			Err(err).
			Str("evt.name", "framewkr.frame.rejected").
			Str("taskId", task.TaskID).
			Str("session.id", task.SessionID).
			Msg("frame task finished without comparison")
		return nil
	}
	return err
}
