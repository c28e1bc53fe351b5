package v1

import (
	"errors"

	"exusiai.dev/posecoach/internal/model"
	"exusiai.dev/posecoach/internal/pkg/pcerr"
)

// withFeedback attaches fb to a pipeline error so clients still receive the status feedback
// of a frame that was rejected by the capture gate or had no reference to compare against.
func withFeedback(err error, fb *model.FeedbackSnapshot) error {
	var pe *pcerr.Error
	if fb == nil || !errors.As(err, &pe) {
		return err
	}
	return pe.WithExtra("feedback", fb)
}
