package types

import (
	"time"

	"exusiai.dev/posecoach/internal/model"
)

// Frame is one landmark snapshot as reported by the client's landmark provider, together
// with the dimensions of the image it was detected on.
type Frame struct {
	FrameID    string                 `json:"frameId" msgpack:"id" validate:"omitempty,max=64,printascii"`
	Landmarks  model.LandmarkSnapshot `json:"landmarks" msgpack:"lm"`
	Width      int                    `json:"width" msgpack:"w"`
	Height     int                    `json:"height" msgpack:"h"`
	CapturedAt *time.Time             `json:"capturedAt,omitempty" msgpack:"ca"`
}

// FrameTask is a frame queued on the message bus for a frame worker.
type FrameTask struct {
	TaskID    string `json:"taskId" msgpack:"tid"`
	SessionID string `json:"sessionId" msgpack:"sid"`
	Frame     Frame  `json:"frame" msgpack:"f"`
	// CreatedAt is in microseconds
	CreatedAt int64 `json:"createdAt" msgpack:"ca"`
}

type FrameAccepted struct {
	TaskID string `json:"taskId"`
}
