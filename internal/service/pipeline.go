package service

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"exusiai.dev/posecoach/internal/app/appconfig"
	"exusiai.dev/posecoach/internal/core/session"
	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/model/types"
	"exusiai.dev/posecoach/internal/pkg/observability"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
	"exusiai.dev/posecoach/internal/pkg/poseschema"
	"exusiai.dev/posecoach/internal/util/angleutil"
	"exusiai.dev/posecoach/internal/util/capturegate"
	"exusiai.dev/posecoach/internal/util/comparator"
	"exusiai.dev/posecoach/internal/util/skeleton"
)

const (
	SourceHTTP    = "http"
	SourceWorker  = "worker"
	SourceCompare = "compare"

	// maxFrameDimension bounds width and height of a frame in pixels.
	maxFrameDimension = 16384
)

var tracer = otel.Tracer("exusiai.dev/posecoach/internal/service")

// Pipeline turns a frame into feedback: validation, the capture gate, angle extraction,
// comparison against the reference and skeleton projection.
type Pipeline struct {
	schema  *poseschema.Schema
	extract angleutil.Options
	policy  comparator.Policy
	gate    *capturegate.Gate
}

func NewPipeline(conf *appconfig.Config) (*Pipeline, error) {
	gate, err := capturegate.New(conf.PoseLandmarkMinConfidence, conf.PoseVisibleFraction, conf.PoseCaptureGateExpr)
	if err != nil {
		return nil, err
	}

	schema := conf.Schema()
	return newPipeline(
		angleutil.Options{
			Formulation:   conf.Formulation(),
			MinConfidence: conf.PoseLandmarkMinConfidence,
		},
		comparator.Policy{
			Tolerance: conf.PoseTolerance,
			Threshold: conf.PoseCorrectThreshold,
			Schema:    schema,
		},
		gate,
	), nil
}

func newPipeline(extract angleutil.Options, policy comparator.Policy, gate *capturegate.Gate) *Pipeline {
	return &Pipeline{
		schema:  policy.Schema,
		extract: extract,
		policy:  policy,
		gate:    gate,
	}
}

func (p *Pipeline) Schema() *poseschema.Schema {
	return p.schema
}

func (p *Pipeline) Formulation() angleutil.Formulation {
	return p.extract.Formulation
}

// CheckSnapshot rejects snapshots that cannot belong to the schema: more records than the
// schema has landmarks, non-finite coordinates or a confidence outside [0, 1].
func (p *Pipeline) CheckSnapshot(snapshot model.LandmarkSnapshot) error {
	if len(snapshot) > p.schema.Size {
		return pcerr.ErrMalformedInput.Msg("malformed input: %d landmarks given, schema %s has %d", len(snapshot), p.schema.Name, p.schema.Size)
	}
	for i, l := range snapshot {
		if l == nil {
			continue
		}
		if !l.Finite() {
			return pcerr.ErrMalformedInput.Msg("malformed input: landmark %d has a non-finite value", i)
		}
		if l.Confidence < 0 || l.Confidence > 1 {
			return pcerr.ErrMalformedInput.Msg("malformed input: landmark %d has confidence %v outside [0, 1]", i, l.Confidence)
		}
	}
	return nil
}

func (p *Pipeline) CheckFrame(frame *types.Frame) error {
	if frame.Width <= 0 || frame.Height <= 0 || frame.Width > maxFrameDimension || frame.Height > maxFrameDimension {
		return pcerr.ErrMalformedInput.Msg("malformed input: frame dimensions %dx%d are invalid", frame.Width, frame.Height)
	}
	return p.CheckSnapshot(frame.Landmarks)
}

// Admit runs the capture gate. It returns ErrDetectionFailure when nothing was detected and
// ErrIncompleteCapture when too little of the body is visible.
func (p *Pipeline) Admit(snapshot model.LandmarkSnapshot) error {
	outcome, env := p.gate.Check(snapshot, p.schema)
	switch outcome {
	case capturegate.Undetected:
		return pcerr.ErrDetectionFailure
	case capturegate.Incomplete:
		return pcerr.ErrIncompleteCapture.WithExtras(pcerr.Extras{
			"visible": env.Visible,
			"total":   env.Total,
		})
	}
	return nil
}

// Angles extracts the angle map of snapshot under the configured formulation.
func (p *Pipeline) Angles(snapshot model.LandmarkSnapshot) model.AngleMap {
	return angleutil.Extract(snapshot, p.schema, p.extract)
}

// Evaluate builds the feedback for frame against ref without publishing it. Invalid frames
// yield no feedback at all. Frames rejected by the capture gate or evaluated without a
// reference yield a feedback carrying that status together with the matching error.
func (p *Pipeline) Evaluate(frame *types.Frame, ref *model.ReferencePose) (*model.FeedbackSnapshot, error) {
	if err := p.CheckFrame(frame); err != nil {
		return nil, err
	}

	fb := &model.FeedbackSnapshot{
		FrameID:    frame.FrameID,
		CapturedAt: frame.CapturedAt,
		Joints:     []*model.JointVerdict{},
		Skeleton:   []model.Segment{},
	}

	if err := p.Admit(frame.Landmarks); err != nil {
		e := err.(*pcerr.Error)
		fb.Message = e.Message
		if e.ErrorCode == pcerr.CodePoseNotDetected {
			fb.Status = model.FeedbackUndetected
		} else {
			fb.Status = model.FeedbackIncomplete
		}
		return fb, err
	}

	fb.Skeleton = skeleton.Project(frame.Landmarks, p.schema.Bones, frame.Width, frame.Height)

	if ref == nil {
		fb.Status = model.FeedbackNoReference
		fb.Message = pcerr.ErrNoActiveReference.Message
		return fb, pcerr.ErrNoActiveReference
	}

	result := comparator.Compare(p.Angles(frame.Landmarks), ref.Angles, p.policy)
	skeleton.Locate(result.Verdicts, frame.Landmarks, p.schema, frame.Width, frame.Height)

	fb.Status = model.FeedbackOK
	fb.ReferenceID = ref.ReferenceID
	fb.Joints = result.Verdicts
	fb.AccuracyPercent = result.AccuracyPercent
	fb.OverallLabel = result.OverallLabel
	fb.Summary = comparator.Summary(result.Verdicts)
	return fb, nil
}

// Process evaluates frame against the session's active reference and publishes the
// feedback. The reference is read once, so a reference switched mid-frame takes effect from
// the next frame. A panic while processing is reported as ErrInternalError and leaves the
// published feedback unchanged.
func (p *Pipeline) Process(ctx context.Context, s *session.Session, frame *types.Frame, source string) (published *model.FeedbackSnapshot, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "pipeline.process", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("frame.source", source),
	))
	defer func() {
		if r := recover(); r != nil {
			published, err = nil, p.recovered(ctx, s.ID, source, r)
		}
		endSpan(span, published, err)
		observability.FrameProcessDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}()

	fb, err := p.Evaluate(frame, s.Reference())
	if fb == nil {
		observability.FrameOutcome.WithLabelValues("malformed", source).Inc()
		return nil, err
	}

	published, fresh := s.PublishNewer(fb)
	if !fresh {
		log.Ctx(ctx).Debug().
			Str("evt.name", "pipeline.frame.stale").
			Str("session.id", s.ID).
			Str("frame.id", frame.FrameID).
			Msg("dropped feedback of a frame captured before the latest one")
	}
	p.observe(fb, source)

	return published, err
}

// Compare evaluates frame against ref without any session.
func (p *Pipeline) Compare(ctx context.Context, frame *types.Frame, ref *model.ReferencePose) (fb *model.FeedbackSnapshot, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "pipeline.compare", trace.WithAttributes(
		attribute.String("frame.source", SourceCompare),
	))
	defer func() {
		if r := recover(); r != nil {
			fb, err = nil, p.recovered(ctx, "", SourceCompare, r)
		}
		endSpan(span, fb, err)
		observability.FrameProcessDuration.WithLabelValues(SourceCompare).Observe(time.Since(start).Seconds())
	}()

	fb, err = p.Evaluate(frame, ref)
	if fb == nil {
		observability.FrameOutcome.WithLabelValues("malformed", SourceCompare).Inc()
		return nil, err
	}
	p.observe(fb, SourceCompare)
	return fb, err
}

// endSpan records the feedback status on span. Only internal failures mark the span as an
// error; rejected frames are an expected outcome.
func endSpan(span trace.Span, fb *model.FeedbackSnapshot, err error) {
	if fb != nil {
		span.SetAttributes(
			attribute.String("feedback.status", string(fb.Status)),
			attribute.Float64("feedback.accuracy", fb.AccuracyPercent),
		)
	}
	if err != nil {
		span.RecordError(err)
		if fb == nil && errors.Is(err, pcerr.ErrInternalError) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

func (p *Pipeline) observe(fb *model.FeedbackSnapshot, source string) {
	observability.FrameOutcome.WithLabelValues(string(fb.Status), source).Inc()
	if fb.Status == model.FeedbackOK && !math.IsNaN(fb.AccuracyPercent) {
		observability.FrameAccuracy.Observe(fb.AccuracyPercent)
	}
}

func (p *Pipeline) recovered(ctx context.Context, sessionID, source string, r any) error {
	err := fmt.Errorf("pipeline panic: %v", r)

	log.Ctx(ctx).Error().
		Str("evt.name", "pipeline.panic").
		Str("session.id", sessionID).
		Str("source", source).
		Bytes("stack", debug.Stack()).
		Err(err).
		Msg("recovered from panic while processing frame")

	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetTag("source", source)
	if sessionID != "" {
		hub.Scope().SetTag("session_id", sessionID)
	}
	hub.CaptureException(err)

	observability.FrameOutcome.WithLabelValues("internal_error", source).Inc()
	return pcerr.ErrInternalError.Msg("failed to process frame")
}
