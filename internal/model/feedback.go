package model

import "time"

type FeedbackStatus string

const (
	// FeedbackPending is only carried by the sentinel published before the first frame completes.
	FeedbackPending     FeedbackStatus = "pending"
	FeedbackOK          FeedbackStatus = "ok"
	FeedbackUndetected  FeedbackStatus = "undetected"
	FeedbackIncomplete  FeedbackStatus = "incomplete"
	FeedbackNoReference FeedbackStatus = "no_reference"
)

// FeedbackSnapshot is the unit published once per processed frame. Once published it is never
// mutated; a later frame replaces it wholesale.
type FeedbackSnapshot struct {
	// Sequence increases by one for every published snapshot of a session; the pending sentinel is 0.
	Sequence    uint64         `json:"sequence"`
	FrameID     string         `json:"frameId,omitempty"`
	Status      FeedbackStatus `json:"status"`
	Message     string         `json:"message,omitempty"`
	ReferenceID string         `json:"referenceId,omitempty"`
	CapturedAt  *time.Time     `json:"capturedAt,omitempty"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`

	Joints          []*JointVerdict `json:"joints"`
	Skeleton        []Segment       `json:"skeleton"`
	AccuracyPercent float64         `json:"accuracyPercent"`
	OverallLabel    string          `json:"overallLabel,omitempty"`
	// Summary is a human readable sentence derived from Joints.
	Summary string `json:"summary,omitempty"`
}

// PendingFeedback is what a session reports before its first frame completes.
var PendingFeedback = &FeedbackSnapshot{
	Status:   FeedbackPending,
	Message:  "no frame has been processed yet",
	Joints:   []*JointVerdict{},
	Skeleton: []Segment{},
}

func (f *FeedbackSnapshot) IsPending() bool {
	return f == nil || f.Status == FeedbackPending
}
