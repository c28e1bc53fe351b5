package session

import (
	"sync"
	"time"

	"exusiai.dev/posecoach/internal/model"
)

// Session is the comparison state of one live stream: the active reference and the latest
// published feedback. Both values are replaced wholesale and never mutated once stored.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.RWMutex
	reference *model.ReferencePose
	feedback  *model.FeedbackSnapshot
	sequence  uint64
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		feedback:  model.PendingFeedback,
	}
}

// Reference returns the active reference, or nil when none is selected. Callers comparing a
// frame read it once and use that value for the whole frame.
func (s *Session) Reference() *model.ReferencePose {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reference
}

// SetReference makes ref the active reference. A nil ref clears the selection.
func (s *Session) SetReference(ref *model.ReferencePose) {
	s.mu.Lock()
	s.reference = ref
	s.mu.Unlock()
}

// Latest returns the most recently published feedback, or model.PendingFeedback before the
// first frame completes.
func (s *Session) Latest() *model.FeedbackSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feedback
}

// Sequence returns the sequence of the latest published feedback.
func (s *Session) Sequence() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sequence
}

// Publish replaces the latest feedback with f. f must be fully built and must not be modified
// by the caller afterwards; Publish assigns its Sequence and PublishedAt before it becomes visible.
func (s *Session) Publish(f *model.FeedbackSnapshot) *model.FeedbackSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	f.Sequence = s.sequence
	f.PublishedAt = &now
	s.feedback = f
	return f
}

// PublishNewer publishes f unless the latest feedback was captured after it. Frames handled
// concurrently may complete out of order; this keeps the latest feedback from going back in
// time. Frames without a capture time are always published.
func (s *Session) PublishNewer(f *model.FeedbackSnapshot) (*model.FeedbackSnapshot, bool) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur := s.feedback; f.CapturedAt != nil && cur.CapturedAt != nil && f.CapturedAt.Before(*cur.CapturedAt) {
		return cur, false
	}

	s.sequence++
	f.Sequence = s.sequence
	f.PublishedAt = &now
	s.feedback = f
	return f, true
}
