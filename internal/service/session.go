package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"exusiai.dev/posecoach/internal/core/session"
	"exusiai.dev/posecoach/internal/infra"
	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
)

type Session struct {
	registry   *session.Registry
	references *Reference
	pipeline   *Pipeline
	js         nats.JetStreamContext
}

func NewSession(registry *session.Registry, references *Reference, pipeline *Pipeline, js nats.JetStreamContext) *Session {
	return &Session{
		registry:   registry,
		references: references,
		pipeline:   pipeline,
		js:         js,
	}
}

func (s *Session) Create() *session.Session {
	return s.registry.Create()
}

func (s *Session) Get(id string) (*session.Session, error) {
	sess, err := s.registry.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, pcerr.ErrNotFound.Msg("session %s not found or expired", id)
	}
	return sess, err
}

func (s *Session) Delete(id string) error {
	if err := s.registry.Delete(id); err != nil {
		return pcerr.ErrNotFound.Msg("session %s not found or expired", id)
	}
	return nil
}

// SelectReference makes the reference sel names the active reference of the session.
// Frames already being processed keep comparing against the previous one.
func (s *Session) SelectReference(ctx context.Context, id string, sel *types.ReferenceSelector) (*model.ReferencePose, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	ref, err := s.references.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}
	sess.SetReference(ref)

	log.Ctx(ctx).Info().
		Str("evt.name", "session.reference.selected").
		Str("session.id", id).
		Str("reference.id", ref.ReferenceID).
		Msg("active reference selected")

	return ref, nil
}

func (s *Session) ClearReference(id string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	sess.SetReference(nil)
	return nil
}

// SubmitFrame processes frame inline and returns the feedback it published.
func (s *Session) SubmitFrame(ctx context.Context, id string, frame *types.Frame, source string) (*model.FeedbackSnapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Process(ctx, sess, frame, source)
}

// EnqueueFrame queues frame for the frame workers of this instance and returns the task id.
// The frame is validated before it is queued; its feedback is published by the worker.
func (s *Session) EnqueueFrame(ctx context.Context, id string, frame *types.Frame) (string, error) {
	if _, err := s.Get(id); err != nil {
		return "", err
	}
	if err := s.pipeline.CheckFrame(frame); err != nil {
		return "", err
	}

	task := &types.FrameTask{
		TaskID:    ulid.Make().String(),
		SessionID: id,
		Frame:     *frame,
		CreatedAt: time.Now().UnixMicro(),
	}
	b, err := msgpack.Marshal(task)
	if err != nil {
		return "", err
	}

	if _, err := s.js.Publish(infra.FrameSubject(s.registry.Instance), b, nats.MsgId(task.TaskID), nats.Context(ctx)); err != nil {
		log.Ctx(ctx).Error().
			Str("evt.name", "session.frame.enqueue").
			Str("session.id", id).
			Err(err).
			Msg("failed to queue frame")
		return "", pcerr.ErrInternalError.Msg("failed to queue frame")
	}

	return task.TaskID, nil
}

func (s *Session) Latest(id string) (*model.FeedbackSnapshot, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return sess.Latest(), nil
}

func (s *Session) Instance() string {
	return s.registry.Instance
}

// Describe summarizes sess for API responses.
func Describe(sess *session.Session) *types.SessionResponse {
	resp := &types.SessionResponse{
		SessionID: sess.ID,
		CreatedAt: sess.CreatedAt,
		Sequence:  sess.Sequence(),
	}
	if ref := sess.Reference(); ref != nil {
		resp.ReferenceID = ref.ReferenceID
	}
	return resp
}

// List describes the live sessions of this instance, oldest first.
func (s *Session) List() []*types.SessionResponse {
	list := make([]*types.SessionResponse, 0, s.registry.Count())
	s.registry.Each(func(sess *session.Session) {
		list = append(list, Describe(sess))
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

// Count returns the number of live sessions on this instance.
func (s *Session) Count() int {
	return s.registry.Count()
}
